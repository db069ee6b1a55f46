package todo

// SeedSample adds the three demonstration tasks shown on first launch: a
// high priority work task due in three days, a medium personal task due
// today, and a completed health task that was due yesterday.
func SeedSample(s *Store, today Date) error {
	samples := []struct {
		draft     Draft
		completed bool
	}{
		{
			draft: Draft{
				Title:       "Complete project proposal",
				Description: "Draft and review the Q3 project proposal",
				Priority:    PriorityHigh,
				Category:    CategoryWork,
				DueDate:     today.AddDays(3),
			},
		},
		{
			draft: Draft{
				Title:       "Buy groceries",
				Description: "Milk, eggs, bread, vegetables",
				Priority:    PriorityMedium,
				Category:    CategoryPersonal,
				DueDate:     today,
			},
		},
		{
			draft: Draft{
				Title:       "Morning workout",
				Description: "30 minutes cardio + stretching",
				Priority:    PriorityHigh,
				Category:    CategoryHealth,
				DueDate:     today.AddDays(-1),
			},
			completed: true,
		},
	}

	for _, sample := range samples {
		task, err := s.Add(sample.draft)
		if err != nil {
			return err
		}
		if sample.completed {
			if _, err := s.Toggle(task.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

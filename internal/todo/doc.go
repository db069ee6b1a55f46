// Package todo holds the in-memory task store and its derived views.
//
// A Store keeps tasks in insertion order. Mutations (Add, Toggle, Remove,
// Edit) validate before committing, so a rejected call leaves the store as it
// was. Queries never reorder the store: View filters a copy and sorts it for
// display relative to a given day, and Insights aggregates over every task.
//
// # Display order
//
// View sorts matching tasks stably by:
//
//  1. incomplete before completed
//  2. overdue before not overdue
//  3. due today before not due today
//  4. high, then medium, then low priority
//  5. earlier due date first, tasks without a due date last
//
// Overdue and due-today are computed against the day passed in, never
// against the wall clock, so results are reproducible.
//
// # JSON input
//
// DecodeDraft and DecodePatch accept JSON payloads checked against the
// embedded JSON Schema (draft 2020-12) documents in schema/. Due dates may be
// written as YYYY-MM-DD or relative to today:
//
//	{"title": "Ship report", "priority": "high", "category": "work", "due_date": "+3d"}
//
// Schema failures come back as *ValidationError values carrying the dotted
// path of the offending field. Every validation failure matches ErrInvalid
// and every unknown id matches ErrNotFound under errors.Is.
package todo

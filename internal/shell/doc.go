// Package shell runs line-oriented task commands against a store.
//
// Each input line is one command:
//
//	add {"title": "Ship report", "priority": "high", "due_date": "+3d"}
//	edit T001 {"completed": true}
//	toggle T001
//	rm T001
//	get T001 [-format text|json|yaml]
//	ls [-search s] [-status all|active|completed] [-category c] [-priority p] [-format text|json|yaml]
//	stats [-format text|json|yaml]
//	today [YYYY-MM-DD|+Nd|reset]
//	sample
//	help
//	quit
//
// Blank lines and lines starting with # are skipped. A failing command
// prints its error and the shell carries on.
package shell

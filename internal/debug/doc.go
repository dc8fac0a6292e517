// Package debug filters and writes the plugin's debug lines.
//
// Debugging is off by default. Once enabled every line goes through the
// filters unless bypass-all-filters was requested:
//
//	debug type      ──► must be in the type filter when one is set
//	rule name       ──► a rule filter drops lines without a rule
//	entity type     ──► an entity filter drops lines without an entity
//	listen-for      ──► success / failure / both, only for lines with a result
//	min / max Y     ──► compared against the entity's block Y
//
// Messages are passed as func() string and only built when the line is
// written. Lines are composed as
//
//	mob: ZOMBIE (lvl 5), (rule) <message>, result: false
//
// and written at info level as "[Debug: TYPE] ...".
//
// Enable(useTimer=true) with a positive disable-after duration schedules a
// RunLater task that turns debugging off again and logs
// "Debug timer has elapsed, debugging is now disabled".
package debug

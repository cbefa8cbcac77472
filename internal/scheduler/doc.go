// Package scheduler runs waterbot's fixed daily reminder timetable.
//
// # Overview
//
// Each reminder is a time of day ("HH:MM", host-local) plus a message. The
// scheduler keeps one job per distinct time and owns its next fire instant,
// computed from a standard 5-field cron spec. There is no background
// goroutine: the owner calls Poll at a coarse interval and due jobs are
// delivered synchronously, then rescheduled for the following day.
//
// Jobs are independent. A reminder that fails to deliver is logged and
// advanced like a successful one; missed occurrences are not replayed.
package scheduler

package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"waterbot/pkg/logx"
)

// Sender delivers one message and reports whether it was accepted.
type Sender interface {
	Send(ctx context.Context, text string) bool
}

// Entry is one fixed reminder: a time of day and the message to send.
type Entry struct {
	At   string // "HH:MM", 24-hour local time
	Text string
}

type job struct {
	at       string // normalized HH:MM
	text     string
	schedule cron.Schedule
	next     time.Time
}

// Service owns the daily timetable. All methods must be called from a single
// goroutine; Poll mutates job state without locking.
type Service struct {
	log    logx.Logger
	sender Sender
	jobs   []*job

	now func() time.Time
}

// New builds the timetable and computes every job's first fire instant in
// host-local time.
func New(sender Sender, entries []Entry, log logx.Logger) (*Service, error) {
	return newWithClock(sender, entries, log, time.Now)
}

func newWithClock(sender Sender, entries []Entry, log logx.Logger, now func() time.Time) (*Service, error) {
	s := &Service{log: log, sender: sender, now: now}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	seen := map[string]bool{}
	for _, e := range entries {
		h, m, err := parseHHMM(e.At)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(e.Text) == "" {
			return nil, fmt.Errorf("reminder at %s has no message", e.At)
		}
		at := fmt.Sprintf("%02d:%02d", h, m)
		if seen[at] {
			return nil, fmt.Errorf("duplicate reminder time %s", at)
		}
		seen[at] = true

		sched, err := parser.Parse(fmt.Sprintf("%d %d * * *", m, h))
		if err != nil {
			return nil, fmt.Errorf("schedule for %s: %w", at, err)
		}
		j := &job{at: at, text: e.Text, schedule: sched, next: sched.Next(s.now())}
		s.jobs = append(s.jobs, j)
		log.Info("reminder scheduled", logx.String("at", at), logx.Time("next", j.next))
	}

	sort.Slice(s.jobs, func(i, j int) bool { return s.jobs[i].at < s.jobs[j].at })
	return s, nil
}

// Poll fires every job whose next instant has arrived and reschedules it for
// the following day. Sends are synchronous; a failed send still advances the
// job so one bad delivery cannot wedge the timetable.
func (s *Service) Poll(ctx context.Context) {
	now := s.now()
	for _, j := range s.jobs {
		if j.next.After(now) {
			continue
		}
		s.log.Info("reminder due", logx.String("at", j.at))
		if s.sender.Send(ctx, j.text) {
			s.log.Info("reminder delivered", logx.String("at", j.at))
		} else {
			s.log.Error("reminder delivery failed", logx.String("at", j.at))
		}
		j.next = j.schedule.Next(now)
	}
}

// NextReminderDescription renders the soonest upcoming reminder for startup
// logs: "Next reminder at 09:00", or a sentinel when the table is empty.
func (s *Service) NextReminderDescription() string {
	if len(s.jobs) == 0 {
		return "No reminders scheduled"
	}
	next := s.jobs[0].next
	for _, j := range s.jobs[1:] {
		if j.next.Before(next) {
			next = j.next
		}
	}
	return "Next reminder at " + next.Format("15:04")
}

func parseHHMM(s string) (hour int, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}

// Package notify drives the periodic reminder loop. On every tick the
// Scheduler resolves the current topic and publishes a Status, and, unless
// reminders are suppressed, a Reminder for the topic.
//
// Suppression has two sources: a manual toggle and the weekday rules from
// settings. The weekday is captured once when the Scheduler is created and
// is not refreshed at midnight.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tlog/internal/logging"
	"github.com/mesh-intelligence/tlog/internal/schedule"
	"github.com/mesh-intelligence/tlog/internal/settings"
	"github.com/mesh-intelligence/tlog/pkg/types"
)

// DefaultInterval is used when the stored interval cannot be applied.
const DefaultInterval = 30 * time.Minute

// TopicSource supplies the topics evaluated on every tick.
type TopicSource interface {
	ListTopics() ([]types.Topic, error)
}

// State reports whether reminders are currently emitted.
type State int

const (
	Armed State = iota
	Suppressed
)

func (s State) String() string {
	if s == Suppressed {
		return "suppressed"
	}
	return "armed"
}

// Status is published on every tick regardless of State.
type Status struct {
	Now     time.Time
	Active  []types.Topic // topics whose window contains Now
	Current *types.Topic  // closest topic; nil when there are no topics
	State   State
}

// Reminder asks the user to log progress on Topic.
type Reminder struct {
	Topic     types.Topic
	Remaining time.Duration
	At        time.Time
}

// Message renders the reminder for display.
func (r Reminder) Message() string {
	return fmt.Sprintf("Log your achievements. %s ending %s",
		r.Topic.Title, humanize.RelTime(r.At.Add(r.Remaining), r.At, "ago", "from now"))
}

// Scheduler emits reminders on a recurring timer.
type Scheduler struct {
	topics   TopicSource
	settings *settings.Store
	clock    clock.Clock
	logger   *zap.SugaredLogger
	weekday  time.Weekday

	unsubscribe func()
	rearm       chan struct{}

	mu         sync.Mutex
	interval   time.Duration
	manual     bool
	weekdayOff bool
	nextID     int
	reminders  map[int]func(Reminder)
	statuses   map[int]func(Status)
}

// New creates a Scheduler reading its interval and weekday rules from st.
// The Scheduler follows later changes to st until Close.
func New(topics TopicSource, st *settings.Store, clk clock.Clock, logger *zap.SugaredLogger) *Scheduler {
	s := &Scheduler{
		topics:    topics,
		settings:  st,
		clock:     clk,
		logger:    logging.OrNop(logger),
		weekday:   clk.Now().Weekday(),
		rearm:     make(chan struct{}, 1),
		reminders: make(map[int]func(Reminder)),
		statuses:  make(map[int]func(Status)),
	}

	current := st.Settings()
	interval, err := intervalOf(current.NotifyAfter, current.NotifyUnits)
	if err != nil {
		s.logger.Warnw("invalid interval in settings; using default", "err", err)
		interval = DefaultInterval
	}
	s.interval = interval
	s.evaluateWeekday(current)

	s.unsubscribe = st.Subscribe(s.settingsChanged)
	return s
}

// Close stops following settings changes.
func (s *Scheduler) Close() {
	s.unsubscribe()
}

func (s *Scheduler) settingsChanged(key string) {
	current := s.settings.Settings()
	switch key {
	case types.SettingNotifyAfter, types.SettingNotifyUnits:
		s.applyInterval(current)
	case types.SettingDisableSaturday, types.SettingDisableSunday:
		s.evaluateWeekday(current)
	case settings.BatchKey:
		s.applyInterval(current)
		s.evaluateWeekday(current)
	}
}

func (s *Scheduler) applyInterval(current types.Settings) {
	if err := s.SetInterval(current.NotifyAfter, current.NotifyUnits); err != nil {
		s.logger.Warnw("ignoring interval change", "err", err)
	}
}

// evaluateWeekday recomputes the weekday source against the captured weekday.
func (s *Scheduler) evaluateWeekday(current types.Settings) {
	off := (current.DisableSaturday && s.weekday == time.Saturday) ||
		(current.DisableSunday && s.weekday == time.Sunday)

	s.mu.Lock()
	changed := off != s.weekdayOff
	s.weekdayOff = off
	s.mu.Unlock()

	if changed {
		s.logger.Infow("weekday suppression changed", "weekday", s.weekday, "suppressed", off)
	}
}

// SetInterval sets the tick interval to amount units, where unit is
// "minutes" or "hours". A running loop re-arms its timer immediately.
func (s *Scheduler) SetInterval(amount int, unit string) error {
	interval, err := intervalOf(amount, unit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.interval = interval
	s.mu.Unlock()

	select {
	case s.rearm <- struct{}{}:
	default:
	}
	s.logger.Debugw("notification interval set", "interval", interval)
	return nil
}

// intervalOf converts an amount of units to a tick interval.
func intervalOf(amount int, unit string) (time.Duration, error) {
	factor, ok := types.UnitMinutesFactor[unit]
	if !ok || amount <= 0 {
		return 0, fmt.Errorf("%w: interval %d %s", settings.ErrInvalidValue, amount, unit)
	}
	return time.Duration(amount*factor) * time.Minute, nil
}

// Interval returns the current tick interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// ToggleManual sets the manual suppression source. The weekday source is
// unaffected.
func (s *Scheduler) ToggleManual(disabled bool) {
	s.mu.Lock()
	s.manual = disabled
	s.mu.Unlock()

	if disabled {
		s.logger.Info("notifications disabled")
	} else {
		s.logger.Info("notifications enabled")
	}
}

// State is Suppressed while either suppression source is set.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manual || s.weekdayOff {
		return Suppressed
	}
	return Armed
}

// OnReminder registers fn for every emitted Reminder.
func (s *Scheduler) OnReminder(fn func(Reminder)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.reminders[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.reminders, id)
		s.mu.Unlock()
	}
}

// OnStatus registers fn for the Status published on every tick.
func (s *Scheduler) OnStatus(fn func(Status)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.statuses[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.statuses, id)
		s.mu.Unlock()
	}
}

// Tick evaluates the topics at now. It never changes the suppression state.
func (s *Scheduler) Tick(now time.Time) {
	topics, err := s.topics.ListTopics()
	if err != nil {
		s.logger.Errorw("failed to load topics", "err", err)
		return
	}

	state := s.State()
	status := Status{
		Now:    now,
		Active: schedule.ActiveWindows(topics, now),
		State:  state,
	}
	current, ok := schedule.ClosestTopic(topics, now)
	if ok {
		status.Current = &current
	}

	s.mu.Lock()
	statusFns := make([]func(Status), 0, len(s.statuses))
	for _, fn := range s.statuses {
		statusFns = append(statusFns, fn)
	}
	reminderFns := make([]func(Reminder), 0, len(s.reminders))
	for _, fn := range s.reminders {
		reminderFns = append(reminderFns, fn)
	}
	s.mu.Unlock()

	for _, fn := range statusFns {
		fn(status)
	}

	if state != Armed || !ok || !current.Enabled {
		return
	}

	r := Reminder{Topic: current, Remaining: schedule.TimeRemaining(current, now), At: now}
	s.logger.Debugw("reminder", "topic", current.Title, "remaining", r.Remaining)
	for _, fn := range reminderFns {
		fn(r)
	}
}

// Run ticks once immediately and then every Interval until ctx is done.
// The timer is re-armed with the current interval before each tick and
// whenever SetInterval is called.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := s.clock.NewTimer(s.Interval())
	defer timer.Stop()

	// Drain a rearm left over from construction.
	select {
	case <-s.rearm:
	default:
	}

	s.logger.Infow("scheduler started", "interval", s.Interval(), "state", s.State())
	s.Tick(s.clock.Now())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-s.rearm:
			timer.Reset(s.Interval())
		case <-timer.C:
			timer.Reset(s.Interval())
			s.Tick(s.clock.Now())
		}
	}
}

// ABOUTME: LoadingPhaseScheduler that cycles locale-specific progress phrases
// ABOUTME: Index advances every interval up to the last phrase and holds until disarmed

package loading

import (
	"log/slog"
	"sync"
	"time"

	"github.com/2389/sazon-chat/internal/i18n"
)

// DefaultInterval is the time between phase advances
const DefaultInterval = 1800 * time.Millisecond

// Phase is the scheduler position. Only meaningful while armed.
type Phase struct {
	Index   int
	ArmedAt time.Time
}

// PhraseTable returns the ordered phrases for a locale
type PhraseTable func(locale i18n.Locale) []string

// Scheduler advances a phase index on a fixed interval.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	phrases  PhraseTable
	logger   *slog.Logger

	mu       sync.Mutex
	armed    bool
	gen      uint64
	locale   i18n.Locale
	phase    Phase
	stop     func()
	onChange func(Phase)
}

// NewScheduler creates a disarmed scheduler. A zero interval means
// DefaultInterval; nil phrases means i18n.LoadingPhrases.
func NewScheduler(clock Clock, interval time.Duration, phrases PhraseTable, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if phrases == nil {
		phrases = i18n.LoadingPhrases
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		clock:    clock,
		interval: interval,
		phrases:  phrases,
		logger:   logger.With("component", "loading"),
	}
}

// OnChange registers f to be called after every index change, including
// the reset to 0 on Arm. f runs on the ticking goroutine and must not call
// back into the scheduler.
func (s *Scheduler) OnChange(f func(Phase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = f
}

// Arm resets the index to 0 and starts ticking. An already running ticker
// is stopped first.
func (s *Scheduler) Arm(locale i18n.Locale) {
	s.mu.Lock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.gen++
	gen := s.gen
	s.armed = true
	s.locale = locale
	s.phase = Phase{Index: 0, ArmedAt: s.clock.Now()}
	s.stop = s.clock.Every(s.interval, func() { s.tick(gen) })
	phase, cb := s.phase, s.onChange
	s.mu.Unlock()

	s.logger.Debug("armed", "locale", locale, "interval", s.interval)
	if cb != nil {
		cb(phase)
	}
}

// Disarm stops ticking. The index keeps its last value until the next Arm.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return
	}
	s.armed = false
	s.gen++
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.logger.Debug("disarmed", "index", s.phase.Index)
}

// Armed reports whether the scheduler is ticking
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Index returns the current phase index
func (s *Scheduler) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase.Index
}

// Phase returns the current phase
func (s *Scheduler) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// CurrentPhrase returns the phrase at the current index in locale's list.
// Changing locale while armed changes only the lookup, never the index.
func (s *Scheduler) CurrentPhrase(locale i18n.Locale) string {
	list := s.phrases(locale)
	if len(list) == 0 {
		return ""
	}
	i := s.Index()
	if i >= len(list) {
		i = len(list) - 1
	}
	return list[i]
}

// LastIndex returns the cap for locale's phrase list
func (s *Scheduler) LastIndex(locale i18n.Locale) int {
	return max(len(s.phrases(locale))-1, 0)
}

func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	// A tick that raced with Disarm or a re-Arm belongs to a dead ticker.
	if !s.armed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.phase.Index >= s.LastIndex(s.locale) {
		s.mu.Unlock()
		return
	}
	s.phase.Index++
	phase, cb := s.phase, s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(phase)
	}
}

package slowlog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultThreshold above which a timing is logged as a warning.
const DefaultThreshold = 2 * time.Second

type Logger interface {
	Start(name string)
	Stop(name string) time.Duration
}

type slowLogger struct {
	log           *zerolog.Logger
	threshold     time.Duration
	ongoingTimers map[string]time.Time
	sync.Mutex
}

func (s *slowLogger) Start(name string) {
	s.Lock()
	s.ongoingTimers[name] = time.Now()
	s.Unlock()
}

func (s *slowLogger) Stop(name string) time.Duration {
	s.Lock()
	defer s.Unlock()

	start, ok := s.ongoingTimers[name]
	if !ok {
		return 0
	}
	delete(s.ongoingTimers, name)

	duration := time.Since(start)

	event := s.log.Debug()
	if duration >= s.threshold {
		event = s.log.Warn()
	}

	event.
		Float64("duration", duration.Seconds()).
		Str("breakpoint_name", name).
		Msg("")

	return duration
}

func CreateLogger(log *zerolog.Logger, threshold time.Duration) *slowLogger {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	logger := log.With().Str("label", "slowlog").Logger()
	return &slowLogger{
		log:           &logger,
		threshold:     threshold,
		ongoingTimers: make(map[string]time.Time),
	}
}

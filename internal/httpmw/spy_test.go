package httpmw

import (
	"context"
	"sync"

	"github.com/kmercer/jobs-api/internal/log"
)

// spyLogger captures records for assertions.
type spyLogger struct {
	log.Logger
	mu      sync.Mutex
	records []spyRecord
}

type spyRecord struct {
	level string
	msg   string
	err   error
	kv    []any
}

func newSpyLogger() *spyLogger {
	return &spyLogger{Logger: log.Nop()}
}

// With returns self so calls on derived loggers still land here.
func (s *spyLogger) With(kv ...any) log.Logger { return s }

func (s *spyLogger) record(level, msg string, err error, kv []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, spyRecord{level: level, msg: msg, err: err, kv: kv})
}

func (s *spyLogger) Debug(ctx context.Context, msg string, kv ...any) {
	s.record("debug", msg, nil, kv)
}

func (s *spyLogger) Info(ctx context.Context, msg string, kv ...any) {
	s.record("info", msg, nil, kv)
}

func (s *spyLogger) Warn(ctx context.Context, msg string, kv ...any) {
	s.record("warn", msg, nil, kv)
}

func (s *spyLogger) Error(ctx context.Context, err error, msg string, kv ...any) {
	s.record("error", msg, err, kv)
}

func (s *spyLogger) byLevel(level string) []spyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []spyRecord
	for _, r := range s.records {
		if r.level == level {
			out = append(out, r)
		}
	}
	return out
}

package negotiation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/observability"
	"github.com/loadbroker/backend/pkg/logger"
)

// Sink appends events to a JSONL log, one JSON value per line. Lines are
// never rewritten or compacted. Each stored line is the event plus a server
// assigned event_id and received_at stamp.
type Sink struct {
	mu   sync.Mutex
	file *os.File
	kind string
}

func NewSink(path, kind string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create event log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}

	logger.Info("Event log opened", zap.String("kind", kind), zap.String("path", path))

	return &Sink{file: file, kind: kind}, nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Sink) Append(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var stored map[string]interface{}
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to build event envelope: %w", err)
	}
	stored["event_id"] = uuid.NewString()
	stored["received_at"] = time.Now().UTC().Format(time.RFC3339)

	line, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	observability.EventsAppended.WithLabelValues(s.kind).Inc()
	return nil
}

// Replay streams previously appended events of type T back in order. A
// missing log is an empty history, not an error. Unparseable lines are
// skipped with a warning so one bad line cannot poison a restart.
func Replay[T any](path string, fn func(T)) (int, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event T
		if err := json.Unmarshal(line, &event); err != nil {
			logger.Warn("Skipping unparseable event log line",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}

		fn(event)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read event log: %w", err)
	}

	return count, nil
}

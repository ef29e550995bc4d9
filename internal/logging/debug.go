package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger provides topic-based debug logging with minimal overhead when disabled.
// Topic state is resolved on every call so that loggers declared as package
// vars pick up topics enabled later by config.
type Logger struct {
	topic string
}

var (
	mu            sync.RWMutex
	enabledTopics = make(map[string]bool)
)

func init() {
	// DEBUG_TOPICS=stats,series,sampler or DEBUG_TOPICS=all
	Configure(os.Getenv("DEBUG_TOPICS"))
}

// Configure enables the comma separated topics on top of any already enabled.
// "all" enables everything. An empty string is a no-op.
func Configure(topics string) {
	topics = strings.TrimSpace(topics)
	if topics == "" {
		return
	}

	mu.Lock()
	if topics == "all" {
		enabledTopics["*"] = true
	} else {
		for _, topic := range strings.Split(topics, ",") {
			topic = strings.TrimSpace(topic)
			if topic != "" {
				enabledTopics[topic] = true
			}
		}
	}
	enabled := len(enabledTopics) > 0
	mu.Unlock()

	if enabled {
		configureSlog()
	}
}

// configureSlog sets slog's default logger to DEBUG level
func configureSlog() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

// New creates a new topic-specific logger
// Usage: var statsLog = logging.New("stats")
func New(topic string) *Logger {
	return &Logger{topic: topic}
}

// Debug logs a debug message if this topic is enabled
func (l *Logger) Debug(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Debug(msg, l.withTopic(args)...)
}

// Info logs an info message if this topic is enabled
func (l *Logger) Info(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Info(msg, l.withTopic(args)...)
}

// Warn logs a warning message if this topic is enabled
func (l *Logger) Warn(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Warn(msg, l.withTopic(args)...)
}

// Enabled returns true if this logger is enabled
// Useful for expensive computations: if log.Enabled() { ... }
func (l *Logger) Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabledTopics["*"] || enabledTopics[l.topic]
}

func (l *Logger) withTopic(args []any) []any {
	return append([]any{"topic", l.topic}, args...)
}

// reset clears every enabled topic. Tests only.
func reset() {
	mu.Lock()
	enabledTopics = make(map[string]bool)
	mu.Unlock()
}

package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger writes leveled key=value lines for one worker component.
// Contextual fields attached with With/WithJob are appended to every
// line ahead of the per-call pairs.
type Logger struct {
	logger *log.Logger
	fields []interface{}
}

// NewLogger creates a logger for a component
func NewLogger(component string) *Logger {
	return &Logger{
		logger: log.New(os.Stdout, fmt.Sprintf("[%s] ", component), log.LstdFlags),
	}
}

// With returns a logger that stamps the given key-value pairs on every line
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+len(keysAndValues))
	fields = append(fields, l.fields...)
	fields = append(fields, keysAndValues...)
	return &Logger{logger: l.logger, fields: fields}
}

// WithJob returns a logger that stamps the job id on every line emitted
// while processing that job
func (l *Logger) WithJob(jobID string) *Logger {
	return l.With("jobId", jobID)
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV("INFO", msg, keysAndValues)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV("WARN", msg, keysAndValues)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV("ERROR", msg, keysAndValues)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logWithKV("DEBUG", msg, keysAndValues)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues []interface{}) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	appendKV(&b, l.fields)
	appendKV(&b, keysAndValues)
	l.logger.Print(b.String())
}

func appendKV(b *strings.Builder, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
}

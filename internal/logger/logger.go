// Package logger provides the leveled, prefixed logger used across packagelint.
// Values logged under sensitive keys, and registry tokens found in messages,
// are masked before they reach the output.
package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents logging levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config value such as "debug" or "WARN" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes one line per entry: timestamp, level, optional [PREFIX], message, fields.
type Logger struct {
	mu     *sync.Mutex
	level  *Level
	output *io.Writer
	prefix string
	fields map[string]interface{}
}

// Tokens that show up in package manager configs (.npmrc, CI env).
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`npm_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`(?i)Bearer\s+[a-zA-Z0-9._-]+`),
	regexp.MustCompile(`(?i)_authToken\s*=\s*\S+`),
}

var sensitiveFieldNames = map[string]bool{
	"password":   true,
	"secret":     true,
	"token":      true,
	"authtoken":  true,
	"_authtoken": true,
	"api_key":    true,
	"apikey":     true,
	"auth":       true,
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Default returns the process-wide logger. It writes to stderr at INFO.
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(LevelInfo, os.Stderr)
	})
	return defaultLogger
}

// New creates a new logger
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		mu:     &sync.Mutex{},
		level:  &level,
		output: &output,
		fields: map[string]interface{}{},
	}
}

// SetLevel sets the logging level. Child loggers share it.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

// SetOutput sets the output writer. Child loggers share it.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.output = w
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= *l.level
}

// WithField returns a new logger with the field added
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a new logger with the fields added
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	child := *l
	child.fields = merged
	return &child
}

// WithPrefix returns a new logger with the prefix
func (l *Logger) WithPrefix(prefix string) *Logger {
	child := *l
	child.prefix = prefix
	return &child
}

func maskString(s string) string {
	if len(s) <= 8 {
		return "***MASKED***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}

func maskSecrets(s string) string {
	for _, p := range secretPatterns {
		s = p.ReplaceAllStringFunc(s, maskString)
	}
	return s
}

func maskValue(key string, value interface{}) interface{} {
	if IsSensitiveKey(key) {
		if str, ok := value.(string); ok {
			return maskString(str)
		}
		return "***MASKED***"
	}
	if str, ok := value.(string); ok {
		return maskSecrets(str)
	}
	return value
}

func (l *Logger) formatFields() string {
	if len(l.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, maskValue(k, l.fields[k]))
	}
	return sb.String()
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < *l.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	prefix := ""
	if l.prefix != "" {
		prefix = "[" + l.prefix + "] "
	}

	fmt.Fprintf(*l.output, "%s %s %s%s%s\n",
		time.Now().Format("2006-01-02T15:04:05.000Z07:00"),
		level.String(),
		prefix,
		maskSecrets(msg),
		l.formatFields())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// SetLevel sets the level of the default logger
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// SetOutput sets the output of the default logger
func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}

// MaskSecrets masks known token patterns in s.
func MaskSecrets(s string) string {
	return maskSecrets(s)
}

// IsSensitiveKey checks if a key name is sensitive
func IsSensitiveKey(key string) bool {
	return sensitiveFieldNames[strings.ToLower(key)]
}

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// String 返回日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "TRACE"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Field 日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 日志接口（类似于 .NET Core ILogger）
type Logger interface {
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Log(level LogLevel, msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	WithCategory(category string) Logger
}

// LoggerFactory 日志工厂接口
type LoggerFactory interface {
	CreateLogger(category string) Logger
}

// ConsoleLoggerOptions 控制台日志选项
type ConsoleLoggerOptions struct {
	IncludeTimestamp bool
	TimestampFormat  string
	Output           io.Writer
	// JSONOutput 输出 JSON 行而非文本行
	JSONOutput bool
}

// consoleLogger 控制台日志实现
// 写入同一个 Output 的多个 logger 通过共享锁串行化
type consoleLogger struct {
	category     string
	options      ConsoleLoggerOptions
	minimumLevel LogLevel
	fields       []Field
	formatter    Formatter
	mu           *sync.Mutex
}

func newConsoleLogger(category string, options ConsoleLoggerOptions, minimumLevel LogLevel, mu *sync.Mutex) *consoleLogger {
	if options.Output == nil {
		options.Output = os.Stdout
	}
	if options.TimestampFormat == "" {
		options.TimestampFormat = "2006-01-02 15:04:05"
	}

	var formatter Formatter
	if options.JSONOutput {
		formatter = NewJsonFormatter()
	} else {
		formatter = NewTextFormatter(options.IncludeTimestamp, options.TimestampFormat)
	}

	return &consoleLogger{
		category:     category,
		options:      options,
		minimumLevel: minimumLevel,
		formatter:    formatter,
		mu:           mu,
	}
}

func (l *consoleLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *consoleLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *consoleLogger) Info(msg string, fields ...Field)  { l.Log(LogLevelInfo, msg, fields...) }
func (l *consoleLogger) Warn(msg string, fields ...Field)  { l.Log(LogLevelWarn, msg, fields...) }
func (l *consoleLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

func (l *consoleLogger) Log(level LogLevel, msg string, fields ...Field) {
	if level < l.minimumLevel {
		return
	}

	allFields := make([]Field, 0, len(l.fields)+len(fields))
	allFields = append(allFields, l.fields...)
	allFields = append(allFields, fields...)

	entry := &LogEntry{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   allFields,
	}

	data, err := l.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: failed to format entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.options.Output.Write(data)
}

func (l *consoleLogger) WithFields(fields ...Field) Logger {
	clone := *l
	clone.fields = append(append([]Field{}, l.fields...), fields...)
	return &clone
}

func (l *consoleLogger) WithCategory(category string) Logger {
	clone := *l
	clone.category = category
	return &clone
}

// NopLogger 丢弃所有输出的日志记录器，用于测试和默认值
type NopLogger struct{}

func (NopLogger) Trace(msg string, fields ...Field)               {}
func (NopLogger) Debug(msg string, fields ...Field)               {}
func (NopLogger) Info(msg string, fields ...Field)                {}
func (NopLogger) Warn(msg string, fields ...Field)                {}
func (NopLogger) Error(msg string, fields ...Field)               {}
func (NopLogger) Log(level LogLevel, msg string, fields ...Field) {}
func (l NopLogger) WithFields(fields ...Field) Logger             { return l }
func (l NopLogger) WithCategory(category string) Logger           { return l }

package logging

import "sync"

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	options      ConsoleLoggerOptions
	minimumLevel LogLevel
}

// NewLoggingBuilder 创建日志构建器
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		options: ConsoleLoggerOptions{
			IncludeTimestamp: true,
			TimestampFormat:  "2006-01-02 15:04:05",
		},
		minimumLevel: LogLevelInfo,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.minimumLevel = level
	return b
}

// AddConsole 配置控制台输出
func (b *LoggingBuilder) AddConsole(options ...ConsoleLoggerOptions) *LoggingBuilder {
	if len(options) > 0 {
		b.options = options[0]
	}
	return b
}

// UseJSON 切换为 JSON 行输出
func (b *LoggingBuilder) UseJSON() *LoggingBuilder {
	b.options.JSONOutput = true
	return b
}

// Build 构建日志工厂
func (b *LoggingBuilder) Build() LoggerFactory {
	return &loggerFactory{
		options:      b.options,
		minimumLevel: b.minimumLevel,
		writeMu:      &sync.Mutex{},
	}
}

// loggerFactory 日志工厂实现
// 同一个工厂创建的 logger 共享输出锁，保证日志行不交错
type loggerFactory struct {
	options      ConsoleLoggerOptions
	minimumLevel LogLevel
	writeMu      *sync.Mutex
}

func (f *loggerFactory) CreateLogger(category string) Logger {
	return newConsoleLogger(category, f.options, f.minimumLevel, f.writeMu)
}

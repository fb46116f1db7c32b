package logging

import (
	"github.com/gocrud/injection/di"
)

// AddLogging 将日志服务注册到服务集合
// 注册 LoggerFactory 实例和一个按需创建根 Logger 的工厂描述符。
// 使用 TryAdd 语义：调用方已经注册过的日志服务优先。
//
// 使用示例:
//
//	logging.AddLogging(services, func(b *logging.LoggingBuilder) {
//	    b.SetMinimumLevel(logging.LogLevelDebug)
//	})
func AddLogging(s *di.ServiceCollection, configure func(*LoggingBuilder)) *di.ServiceCollection {
	builder := NewLoggingBuilder()
	if configure != nil {
		configure(builder)
	}

	return AddLoggingFactory(s, builder.Build())
}

// AddLoggingFactory 注册一个已构建的日志工厂
func AddLoggingFactory(s *di.ServiceCollection, factory LoggerFactory) *di.ServiceCollection {
	di.TryAddInstance[LoggerFactory](s, factory)
	di.TryAddSingletonFactory[Logger](s, func(sp di.ServiceProvider) Logger {
		v, err := sp.GetService(di.TypeOf[LoggerFactory]())
		if err != nil {
			return NopLogger{}
		}
		return v.(LoggerFactory).CreateLogger("Application")
	})

	return s
}

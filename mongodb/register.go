package mongodb

import (
	"fmt"

	"github.com/gocrud/mgo"

	"github.com/gocrud/injection/core"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/logging"
)

// Builder MongoDB 配置构建器
type Builder struct {
	configs map[string]Options
	order   []string
	errors  []error
}

// NewBuilder 创建构建器
func NewBuilder() *Builder {
	return &Builder{
		configs: make(map[string]Options),
	}
}

// Add 添加 MongoDB 客户端配置
func (b *Builder) Add(name string, uri string, configure func(*Options)) *Builder {
	if _, exists := b.configs[name]; exists {
		b.errors = append(b.errors, fmt.Errorf("mongo client '%s' already configured", name))
		return b
	}

	opts := NewDefaultOptions(name, uri)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid mongo configuration for '%s': %w", name, err))
		return b
	}

	b.configs[name] = *opts
	b.order = append(b.order, name)
	return b
}

// Build 构建 MongoDB 工厂
func (b *Builder) Build() (*Factory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("mongo configuration errors: %v", b.errors)
	}
	if len(b.configs) == 0 {
		return nil, nil
	}

	factory := NewFactory()
	for _, name := range b.order {
		if err := factory.Register(b.configs[name]); err != nil {
			return nil, fmt.Errorf("failed to register mongo client '%s': %w", name, err)
		}
	}
	return factory, nil
}

// AddMongo 将 MongoDB 客户端注册到服务集合
// 注册 *Factory 单例与默认客户端（名称 "default"）的工厂描述符。
func AddMongo(services *di.ServiceCollection, configure func(*Builder)) *di.ServiceCollection {
	builder := NewBuilder()
	if configure != nil {
		configure(builder)
	}

	factory, err := builder.Build()
	if err != nil {
		panic(fmt.Sprintf("mongodb: %v", err))
	}
	if factory == nil {
		return services
	}

	di.TryAddInstance[*Factory](services, factory)
	di.TryAddSingletonFactory[*mgo.Client](services, func(_ di.ServiceProvider) *mgo.Client {
		client, err := factory.Get("default")
		if err != nil {
			return nil
		}
		return client
	})

	return services
}

// Configure 返回 MongoDB 配置器
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		AddMongo(ctx.Services(), options)

		d := ctx.Services().First(di.TypeOf[*Factory]())
		if d == nil {
			return
		}
		factory, ok := d.ImplementationInstance().(*Factory)
		if !ok {
			return
		}
		ctx.SetFeature(factory)

		ctx.GetLogger().Info("Mongo clients configured",
			logging.Field{Key: "clients", Value: len(factory.Names())})

		ctx.SetCleanup("mongodb", func() {
			ctx.GetLogger().Info("Closing mongo clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close mongo clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}

package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"sync"
	"syscall"
	"time"

	"github.com/gocrud/injection/config"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/hosting"
	"github.com/gocrud/injection/logging"
)

// Composition 应用程序组合结果
// 持有冻结后的服务集合与框架核心组件，可以直接运行托管服务。
type Composition struct {
	// Features 存放构建时特性 (WebBuilder, DatabaseBuilder 等)
	Features FeatureCollection

	services        *di.ServiceCollection
	configuration   config.Configuration
	loggerFactory   logging.LoggerFactory
	logger          logging.Logger
	environment     Environment
	provider        *registryProvider
	lifecycle       *LifecycleEvents
	runner          *hosting.Runner
	cleanups        map[string]func()
	shutdownTimeout time.Duration
	stopCh          chan struct{}
	running         bool
	runCancel       context.CancelFunc
	mu              sync.RWMutex
}

// Services 返回冻结的服务集合
func (c *Composition) Services() *di.ServiceCollection {
	return c.services
}

// Configuration 获取配置
func (c *Composition) Configuration() config.Configuration {
	return c.configuration
}

// Logger 获取日志记录器
func (c *Composition) Logger() logging.Logger {
	return c.logger
}

// LoggerFactory 获取日志工厂
func (c *Composition) LoggerFactory() logging.LoggerFactory {
	return c.loggerFactory
}

// Environment 获取环境
func (c *Composition) Environment() Environment {
	return c.environment
}

// Provider 返回基于注册表的服务提供者
// 只能取回实例注册和工厂注册的产物，类型注册需要完整的解析器。
func (c *Composition) Provider() di.ServiceProvider {
	return c.provider
}

// Lifecycle 返回生命周期钩子管理器
func (c *Composition) Lifecycle() *LifecycleEvents {
	return c.lifecycle
}

// GetService 获取服务实例（通过指针参数）
//
// 使用示例：
//
//	var logger logging.Logger
//	composition.GetService(&logger)
func (c *Composition) GetService(ptr any) {
	ptrValue := reflect.ValueOf(ptr)
	if ptrValue.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("injection: GetService argument must be a pointer, got %T", ptr))
	}

	elemValue := ptrValue.Elem()
	if !elemValue.CanSet() {
		panic("injection: GetService argument must be settable")
	}

	instance, err := c.provider.GetService(elemValue.Type())
	if err != nil {
		panic(fmt.Sprintf("injection: failed to get service %s: %v", elemValue.Type().String(), err))
	}
	elemValue.Set(reflect.ValueOf(instance))
}

// Run 运行应用程序（阻塞直到收到退出信号）
func (c *Composition) Run() error {
	return c.RunAsync(context.Background())
}

// RunAsync 运行应用程序，直到 ctx 取消、收到信号或托管服务出错
func (c *Composition) RunAsync(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("injection: composition is already running")
	}
	c.running = true

	runCtx, cancel := context.WithCancel(ctx)
	c.runCancel = cancel

	c.runner = hosting.NewRunner(c.logger)
	for _, service := range hosting.CollectHostedServices(c.services, c.provider) {
		c.runner.Add(service)
	}
	c.mu.Unlock()

	c.logger.Info("Starting application",
		logging.Field{Key: "environment", Value: c.environment.Name()})

	if err := c.lifecycle.Start(runCtx); err != nil {
		cancel()
		c.finishRun()
		return fmt.Errorf("injection: start hook failed: %w", err)
	}

	errCh := c.runner.StartAll(runCtx)

	c.logger.Info("Application started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		c.logger.Info("Received shutdown signal",
			logging.Field{Key: "signal", Value: sig.String()})
	case <-c.stopCh:
		c.logger.Info("Application stop requested")
	case <-ctx.Done():
		c.logger.Info("Context cancelled")
	case err := <-errCh:
		c.logger.Error("Hosted service failed, stopping application",
			logging.Field{Key: "error", Value: err.Error()})
		runErr = err
	}

	c.logger.Info("Shutting down application",
		logging.Field{Key: "timeout", Value: c.shutdownTimeout.String()})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), c.shutdownTimeout)
	defer shutdownCancel()

	if err := c.runner.StopAll(shutdownCtx); err != nil {
		c.logger.Error("Failed to stop hosted services",
			logging.Field{Key: "error", Value: err.Error()})
	}
	c.runner.Wait()

	c.lifecycle.Stop(shutdownCtx, c.logger)

	if len(c.cleanups) > 0 {
		c.logger.Info("Running cleanup functions",
			logging.Field{Key: "count", Value: len(c.cleanups)})
		for key, cleanup := range c.cleanups {
			c.logger.Debug("Running cleanup", logging.Field{Key: "key", Value: key})
			cleanup()
		}
	}

	c.logger.Info("Application stopped")
	c.finishRun()
	return runErr
}

func (c *Composition) finishRun() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// Stop 请求应用程序停止，可重复调用
func (c *Composition) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.stopCh:
	default:
		close(c.stopCh)
	}
	return nil
}

// registryProvider 基于注册表的最小服务提供者
// 实例注册直接返回，工厂注册按单例语义缓存产物。
// 类型注册需要构造与依赖解析，不在此提供者的能力范围内。
type registryProvider struct {
	services *di.ServiceCollection
	parent   *Composition

	mu         sync.Mutex
	singletons map[*di.ServiceDescriptor]*singletonEntry
}

// singletonEntry 每个单例工厂描述符对应一条记录
// once 保证工厂只执行一次，执行发生在 map 锁之外，
// 工厂因此可以通过同一个提供者解析其他注册。
type singletonEntry struct {
	once  sync.Once
	value any
}

func newRegistryProvider(services *di.ServiceCollection, parent *Composition) *registryProvider {
	return &registryProvider{
		services:   services,
		parent:     parent,
		singletons: make(map[*di.ServiceDescriptor]*singletonEntry),
	}
}

// GetService 按服务类型取回首个匹配注册的产物
func (p *registryProvider) GetService(serviceType reflect.Type) (any, error) {
	if serviceType == nil {
		return nil, di.ErrNilServiceType
	}

	descriptor := p.services.First(serviceType)
	if descriptor == nil {
		return nil, fmt.Errorf("injection: no registration for service type %s", serviceType.String())
	}

	if instance := descriptor.ImplementationInstance(); instance != nil {
		return instance, nil
	}

	factory := descriptor.ImplementationFactory()
	if factory == nil {
		return nil, fmt.Errorf("injection: service type %s is registered by implementation type and requires a full service provider", serviceType.String())
	}

	if descriptor.Lifetime() != di.Singleton {
		return factory(p), nil
	}

	p.mu.Lock()
	entry, ok := p.singletons[descriptor]
	if !ok {
		entry = &singletonEntry{}
		p.singletons[descriptor] = entry
	}
	p.mu.Unlock()

	entry.once.Do(func() {
		entry.value = factory(p)
	})
	return entry.value, nil
}

package core

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocrud/injection/config"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/hosting"
	"github.com/gocrud/injection/logging"
)

func TestBuildRegistersFrameworkServices(t *testing.T) {
	composition, err := NewApplicationBuilder().
		UseEnvironment("production").
		ConfigureConfiguration(func(b *config.ConfigurationBuilder) {
			b.AddInMemory(map[string]any{"app": map[string]any{"name": "demo"}})
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	services := composition.Services()
	if !services.IsReadOnly() {
		t.Error("built collection must be frozen")
	}

	for _, serviceType := range []reflect.Type{
		di.TypeOf[config.Configuration](),
		di.TypeOf[logging.LoggerFactory](),
		di.TypeOf[logging.Logger](),
		di.TypeOf[Environment](),
	} {
		if services.First(serviceType) == nil {
			t.Errorf("missing framework registration for %v", serviceType)
		}
	}

	if !composition.Environment().IsProduction() {
		t.Errorf("environment = %q", composition.Environment().Name())
	}
	if got := composition.Configuration().Get("app:name"); got != "demo" {
		t.Errorf("app:name = %q", got)
	}
}

func TestBuildRunsConfiguratorsBeforeServiceConfigurators(t *testing.T) {
	var order []string

	// 模块包的 Configure 辅助函数返回具名的 Configurator 类型，
	// 与裸函数字面量走同一条注册路径
	named := Configurator(func(ctx *BuildContext) {
		order = append(order, "named")
	})

	_, err := NewApplicationBuilder().
		Configure(named, func(ctx *BuildContext) {
			order = append(order, "literal")
		}).
		ConfigureServices(func(s *di.ServiceCollection) {
			order = append(order, "services")
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(order) != 3 || order[0] != "named" || order[1] != "literal" || order[2] != "services" {
		t.Errorf("execution order = %v", order)
	}
}

func TestConfigureRejectsUnknownType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Configure should panic on a non-configurator argument")
		}
	}()
	NewApplicationBuilder().Configure(42)
}

func TestUserRegistrationWinsViaReplace(t *testing.T) {
	custom := logging.NopLogger{}

	composition, err := NewApplicationBuilder().
		ConfigureServices(func(s *di.ServiceCollection) {
			d, err := di.NewInstanceDescriptor(di.TypeOf[logging.Logger](), custom)
			if err != nil {
				t.Fatalf("NewInstanceDescriptor failed: %v", err)
			}
			s.Replace(d)
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var logger logging.Logger
	composition.GetService(&logger)
	if logger != custom {
		t.Error("replaced logger registration was not returned")
	}
}

func TestProviderSemantics(t *testing.T) {
	var builds atomic.Int32

	composition, err := NewApplicationBuilder().
		ConfigureServices(func(s *di.ServiceCollection) {
			di.AddSingletonFactory[*bytesHolder](s, func(_ di.ServiceProvider) *bytesHolder {
				builds.Add(1)
				return &bytesHolder{}
			})
			di.AddTransientFactory[*counter](s, func(_ di.ServiceProvider) *counter {
				return &counter{}
			})
			di.AddSingleton[*plainStruct](s)
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	provider := composition.Provider()

	// 单例工厂只执行一次
	first, err := provider.GetService(di.TypeOf[*bytesHolder]())
	if err != nil {
		t.Fatalf("GetService failed: %v", err)
	}
	second, _ := provider.GetService(di.TypeOf[*bytesHolder]())
	if first != second || builds.Load() != 1 {
		t.Error("singleton factory must be invoked exactly once")
	}

	// 瞬态工厂每次执行
	a, _ := provider.GetService(di.TypeOf[*counter]())
	b, _ := provider.GetService(di.TypeOf[*counter]())
	if a == b {
		t.Error("transient factory must produce fresh instances")
	}

	// 类型注册需要完整的解析器
	if _, err := provider.GetService(di.TypeOf[*plainStruct]()); err == nil {
		t.Error("type registration lookup should fail without a resolver")
	}

	// 未注册类型
	if _, err := provider.GetService(di.TypeOf[*Composition]()); err == nil {
		t.Error("unregistered type lookup should fail")
	}
}

type bytesHolder struct{ data []byte }
type counter struct{ n int }
type plainStruct struct{}

// loggingTask 在工厂中解析 Logger 的托管服务
type loggingTask struct {
	logger logging.Logger
}

func (s *loggingTask) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (s *loggingTask) Stop(ctx context.Context) error { return nil }

func TestProviderNestedFactoryResolution(t *testing.T) {
	composition, err := NewApplicationBuilder().
		ConfigureServices(func(s *di.ServiceCollection) {
			di.AddSingletonFactory[hosting.HostedService](s, func(p di.ServiceProvider) hosting.HostedService {
				v, err := p.GetService(di.TypeOf[logging.Logger]())
				if err != nil {
					return &loggingTask{logger: logging.NopLogger{}}
				}
				return &loggingTask{logger: v.(logging.Logger)}
			})
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// 工厂内部通过同一个提供者解析另一个单例工厂注册（Logger），
	// 解析必须正常返回而不是相互等待
	done := make(chan any, 1)
	go func() {
		svc, err := composition.Provider().GetService(di.TypeOf[hosting.HostedService]())
		if err != nil {
			done <- err
			return
		}
		done <- svc
	}()

	select {
	case result := <-done:
		if err, ok := result.(error); ok {
			t.Fatalf("GetService failed: %v", err)
		}
		task, ok := result.(*loggingTask)
		if !ok {
			t.Fatalf("resolved %T, want *loggingTask", result)
		}
		if task.logger == nil {
			t.Error("nested logger resolution produced nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("nested singleton factory resolution did not return")
	}
}

func TestBuildContextFeatures(t *testing.T) {
	marker := &bytesHolder{data: []byte("feature")}

	composition, err := NewApplicationBuilder().
		Configure(func(ctx *BuildContext) {
			ctx.SetFeature(marker)
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := GetFeature[*bytesHolder](composition); got != marker {
		t.Errorf("GetFeature returned %v, want the registered marker", got)
	}
	if got := GetFeature[*counter](composition); got != nil {
		t.Errorf("unregistered feature should be zero, got %v", got)
	}
}

func TestCompositionRunStop(t *testing.T) {
	var started atomic.Bool

	composition, err := NewApplicationBuilder().
		UseShutdownTimeout(time.Second).
		AddTask(func(ctx context.Context) error {
			started.Store(true)
			<-ctx.Done()
			return ctx.Err()
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- composition.Run() }()

	deadline := time.Now().Add(time.Second)
	for !started.Load() {
		if time.Now().After(deadline) {
			t.Fatal("task did not start")
		}
		time.Sleep(time.Millisecond)
	}

	if err := composition.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	// Stop 可重复调用
	if err := composition.Stop(context.Background()); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}

func TestLifecycleHooks(t *testing.T) {
	var events []string

	composition, err := NewApplicationBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	composition.Lifecycle().OnStart(func(ctx context.Context) error {
		events = append(events, "start")
		return nil
	})
	composition.Lifecycle().OnStop(func(ctx context.Context) error {
		events = append(events, "stop")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- composition.RunAsync(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if len(events) != 2 || events[0] != "start" || events[1] != "stop" {
		t.Errorf("lifecycle events = %v", events)
	}
}

package core

import (
	"strings"
	"testing"

	"github.com/gocrud/injection/di"
)

// 定义各种 Extension 实现用于测试

// EmptyExtension 未实现任何接口
type EmptyExtension struct{}

func (e *EmptyExtension) Name() string { return "Empty" }

// ServiceOnlyExtension 仅实现 ServiceConfigurator
type ServiceOnlyExtension struct{}

func (e *ServiceOnlyExtension) Name() string                              { return "ServiceOnly" }
func (e *ServiceOnlyExtension) ConfigureServices(s *di.ServiceCollection) {}

// BuilderOnlyExtension 仅实现 BuilderConfigurator
type BuilderOnlyExtension struct{}

func (e *BuilderOnlyExtension) Name() string                       { return "BuilderOnly" }
func (e *BuilderOnlyExtension) ConfigureBuilder(ctx *BuildContext) {}

// FullExtension 同时实现 ServiceConfigurator 和 BuilderConfigurator
type FullExtension struct{}

func (e *FullExtension) Name() string                              { return "Full" }
func (e *FullExtension) ConfigureServices(s *di.ServiceCollection) {}
func (e *FullExtension) ConfigureBuilder(ctx *BuildContext)        {}

func TestAddExtension_Panic_WhenNoInterfaceImplemented(t *testing.T) {
	builder := NewApplicationBuilder()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("The code did not panic as expected for EmptyExtension")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "Extension 'Empty' does not implement any supported interfaces") {
			t.Errorf("Panic message not match. Got: %v", r)
		}
	}()

	builder.AddExtension(&EmptyExtension{})
}

func TestAddExtension_Success_ServiceOnly(t *testing.T) {
	builder := NewApplicationBuilder()
	builder.AddExtension(&ServiceOnlyExtension{})

	if len(builder.serviceConfigurators) != 1 {
		t.Errorf("Expected 1 service configurator, got %d", len(builder.serviceConfigurators))
	}
	if len(builder.configurators) != 0 {
		t.Errorf("Expected 0 builder configurators, got %d", len(builder.configurators))
	}
}

func TestAddExtension_Success_BuilderOnly(t *testing.T) {
	builder := NewApplicationBuilder()
	builder.AddExtension(&BuilderOnlyExtension{})

	if len(builder.serviceConfigurators) != 0 {
		t.Errorf("Expected 0 service configurators, got %d", len(builder.serviceConfigurators))
	}
	if len(builder.configurators) != 1 {
		t.Errorf("Expected 1 builder configurator, got %d", len(builder.configurators))
	}
}

func TestAddExtension_Multiple(t *testing.T) {
	builder := NewApplicationBuilder()
	builder.AddExtension(&ServiceOnlyExtension{})
	builder.AddExtension(&BuilderOnlyExtension{})
	builder.AddExtension(&FullExtension{})

	if len(builder.serviceConfigurators) != 2 { // ServiceOnly + Full
		t.Errorf("Expected 2 service configurators, got %d", len(builder.serviceConfigurators))
	}
	if len(builder.configurators) != 2 { // BuilderOnly + Full
		t.Errorf("Expected 2 builder configurators, got %d", len(builder.configurators))
	}
}

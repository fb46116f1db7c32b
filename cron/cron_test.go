package cron

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/hosting"
	"github.com/gocrud/injection/logging"
)

func TestServiceAddRemoveJob(t *testing.T) {
	service := newService(logging.NopLogger{}, serviceOptions{EnableSeconds: true})

	if err := service.AddJob("* * * * * *", "tick", func() {}); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if service.JobCount() != 1 {
		t.Errorf("JobCount = %d, want 1", service.JobCount())
	}

	// 非法表达式
	if err := service.AddJob("not-a-spec", "broken", func() {}); err == nil {
		t.Error("invalid spec should fail")
	}

	service.RemoveJob("tick")
	if service.JobCount() != 0 {
		t.Errorf("JobCount after remove = %d, want 0", service.JobCount())
	}
}

func TestServiceRunsJobs(t *testing.T) {
	var runs atomic.Int32

	service := newService(nil, serviceOptions{EnableSeconds: true})
	if err := service.AddJob("* * * * * *", "tick", func() {
		runs.Add(1)
	}); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Start(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	cancel()
	<-done

	if err := service.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if runs.Load() == 0 {
		t.Error("job never ran")
	}
}

func TestBuilderInjectedJob(t *testing.T) {
	var got logging.Logger
	builder := NewBuilder().WithSeconds().
		AddInjectedJob("* * * * * *", "probe", func(logger logging.Logger) {
			got = logger
		})

	service, err := builder.Build(nil, staticProvider{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if service.JobCount() != 1 {
		t.Fatalf("JobCount = %d", service.JobCount())
	}
	_ = got

	// 非函数 handler 报错
	_, err = NewBuilder().AddInjectedJob("* * * * * *", "bad", 42).Build(nil, staticProvider{})
	if err == nil {
		t.Error("non-function handler should fail Build")
	}

	// 缺少提供者报错
	_, err = NewBuilder().AddInjectedJob("* * * * * *", "p", func(l logging.Logger) {}).Build(nil, nil)
	if err == nil {
		t.Error("missing provider should fail Build")
	}
}

func TestAddCron(t *testing.T) {
	services := di.NewServiceCollection()

	AddCron(services, func(b *Builder) {
		b.WithSeconds().AddJob("* * * * * *", "tick", func() {})
	})

	descriptor := services.First(di.TypeOf[hosting.HostedService]())
	if descriptor == nil {
		t.Fatal("missing hosted service registration")
	}

	created := descriptor.ImplementationFactory()(staticProvider{})
	service, ok := created.(*Service)
	if !ok {
		t.Fatalf("factory returned %T", created)
	}
	if service.JobCount() != 1 {
		t.Errorf("JobCount = %d, want 1", service.JobCount())
	}
}

func TestAddCronWithoutJobsRegistersNothing(t *testing.T) {
	services := di.NewServiceCollection()
	AddCron(services, nil)

	if services.Count() != 0 {
		t.Errorf("Count = %d, want 0", services.Count())
	}
}

// staticProvider 只会解析 Logger
type staticProvider struct{}

func (staticProvider) GetService(serviceType reflect.Type) (any, error) {
	if serviceType == di.TypeOf[logging.Logger]() {
		return logging.NopLogger{}, nil
	}
	return nil, fmt.Errorf("no registration for %v", serviceType)
}

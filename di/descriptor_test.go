package di_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/gocrud/injection/di"
)

// ---------------- 测试用服务类型 ----------------

type IFakeService interface {
	Value() string
}

type FakeService struct {
	val string
}

func (f *FakeService) Value() string { return f.val }

type AnotherFakeService struct{}

func (a *AnotherFakeService) Value() string { return "another" }

type IDependency interface {
	Ping() error
}

type Dependency struct{}

func (d *Dependency) Ping() error { return nil }

// stubProvider 仅满足工厂签名，不做任何解析
type stubProvider struct{}

func (stubProvider) GetService(serviceType reflect.Type) (any, error) {
	return nil, nil
}

// ---------------- 构造函数 ----------------

func TestNewTypeDescriptor(t *testing.T) {
	service := di.TypeOf[IFakeService]()
	impl := di.TypeOf[*FakeService]()

	d, err := di.NewTypeDescriptor(service, impl, di.Scoped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.ServiceType() != service {
		t.Errorf("ServiceType = %v, want %v", d.ServiceType(), service)
	}
	if d.ImplementationType() != impl {
		t.Errorf("ImplementationType = %v, want %v", d.ImplementationType(), impl)
	}
	if d.Lifetime() != di.Scoped {
		t.Errorf("Lifetime = %v, want Scoped", d.Lifetime())
	}
	if !d.HasImplementationType() {
		t.Error("HasImplementationType should be true for type registration")
	}
	if d.ImplementationFactory() != nil || d.ImplementationInstance() != nil {
		t.Error("factory and instance must be absent for type registration")
	}
}

func TestNewDescriptor_SelfRegistration(t *testing.T) {
	service := di.TypeOf[*FakeService]()

	d, err := di.NewDescriptor(service, di.Transient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 仅给出服务类型时，实现类型默认为服务类型本身
	if d.ImplementationType() != service {
		t.Errorf("ImplementationType = %v, want %v (self)", d.ImplementationType(), service)
	}
}

func TestNewTypeDescriptor_Validation(t *testing.T) {
	if _, err := di.NewTypeDescriptor(nil, di.TypeOf[*FakeService](), di.Singleton); !errors.Is(err, di.ErrNilServiceType) {
		t.Errorf("nil service type: got %v, want ErrNilServiceType", err)
	}
	if _, err := di.NewTypeDescriptor(di.TypeOf[IFakeService](), nil, di.Singleton); !errors.Is(err, di.ErrNilImplementationType) {
		t.Errorf("nil implementation type: got %v, want ErrNilImplementationType", err)
	}
}

func TestNewFactoryDescriptor(t *testing.T) {
	factory := di.Factory(func(sp di.ServiceProvider) any {
		return &FakeService{val: "factory"}
	})

	d, err := di.NewFactoryDescriptor(di.TypeOf[IFakeService](), factory, di.Transient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 工厂引用必须与传入的是同一个函数实例
	got := reflect.ValueOf(d.ImplementationFactory()).Pointer()
	want := reflect.ValueOf(factory).Pointer()
	if got != want {
		t.Error("stored factory is not the function instance passed in")
	}
	if d.ImplementationType() != nil || d.ImplementationInstance() != nil {
		t.Error("type and instance must be absent for factory registration")
	}

	if _, err := di.NewFactoryDescriptor(di.TypeOf[IFakeService](), nil, di.Transient); !errors.Is(err, di.ErrNilFactory) {
		t.Errorf("nil factory: got %v, want ErrNilFactory", err)
	}
	if _, err := di.NewFactoryDescriptor(nil, factory, di.Transient); !errors.Is(err, di.ErrNilServiceType) {
		t.Errorf("nil service type: got %v, want ErrNilServiceType", err)
	}
}

func TestNewInstanceDescriptor(t *testing.T) {
	instance := &FakeService{val: "prebuilt"}

	d, err := di.NewInstanceDescriptor(di.TypeOf[IFakeService](), instance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 实例注册隐含 Singleton 生命周期
	if d.Lifetime() != di.Singleton {
		t.Errorf("Lifetime = %v, want Singleton", d.Lifetime())
	}
	if d.ImplementationInstance() != any(instance) {
		t.Error("stored instance is not the reference passed in")
	}
	if d.ImplementationType() != nil || d.ImplementationFactory() != nil {
		t.Error("type and factory must be absent for instance registration")
	}

	if _, err := di.NewInstanceDescriptor(di.TypeOf[IFakeService](), nil); !errors.Is(err, di.ErrNilInstance) {
		t.Errorf("nil instance: got %v, want ErrNilInstance", err)
	}
}

// ---------------- 泛型语法糖 ----------------

func TestDescribe(t *testing.T) {
	d := di.Describe[IFakeService, *FakeService](di.Singleton)

	if d.ServiceType() != di.TypeOf[IFakeService]() {
		t.Errorf("ServiceType = %v", d.ServiceType())
	}
	if d.ImplementationType() != di.TypeOf[*FakeService]() {
		t.Errorf("ImplementationType = %v", d.ImplementationType())
	}
}

func TestDescribeFactory(t *testing.T) {
	called := false
	d := di.DescribeFactory(func(sp di.ServiceProvider) IFakeService {
		called = true
		return &FakeService{val: "typed"}
	}, di.Scoped)

	if d.Lifetime() != di.Scoped {
		t.Errorf("Lifetime = %v, want Scoped", d.Lifetime())
	}

	// 包装后的工厂调用必须透传到原函数
	got := d.ImplementationFactory()(stubProvider{})
	if !called {
		t.Fatal("wrapped factory did not invoke the typed factory")
	}
	if svc, ok := got.(IFakeService); !ok || svc.Value() != "typed" {
		t.Errorf("factory returned %v", got)
	}
}

func TestDescribeFactory_NilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil factory")
		}
	}()
	di.DescribeFactory[IFakeService](nil, di.Singleton)
}

func TestDescribeInstance(t *testing.T) {
	instance := &FakeService{val: "x"}
	d := di.DescribeInstance[IFakeService](instance)

	if d.Lifetime() != di.Singleton {
		t.Errorf("Lifetime = %v, want Singleton", d.Lifetime())
	}
	if d.ImplementationInstance() != any(instance) {
		t.Error("instance reference mismatch")
	}
}

func TestDescriptorString(t *testing.T) {
	d := di.Describe[IFakeService, *FakeService](di.Transient)
	s := d.String()
	if !strings.Contains(s, "Transient") || !strings.Contains(s, "ImplementationType") {
		t.Errorf("String() = %q", s)
	}

	i := di.DescribeInstance[IFakeService](&FakeService{})
	if !strings.Contains(i.String(), "ImplementationInstance") {
		t.Errorf("String() = %q", i.String())
	}
}

func TestLifetimeString(t *testing.T) {
	cases := map[di.Lifetime]string{
		di.Singleton: "Singleton",
		di.Scoped:    "Scoped",
		di.Transient: "Transient",
	}
	for l, want := range cases {
		if l.String() != want {
			t.Errorf("%d.String() = %q, want %q", l, l.String(), want)
		}
	}
}

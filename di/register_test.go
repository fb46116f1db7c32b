package di_test

import (
	"errors"
	"testing"

	"github.com/gocrud/injection/di"
)

// 每个 Add<Lifetime> 变体都必须产出恰好一条字段精确的描述符。

func TestAddLifetimeFamilies(t *testing.T) {
	cases := []struct {
		name     string
		register func(*di.ServiceCollection) *di.ServiceCollection
		service  any
		impl     any
		lifetime di.Lifetime
	}{
		{"TransientSelf", di.AddTransient[*FakeService], di.TypeOf[*FakeService](), di.TypeOf[*FakeService](), di.Transient},
		{"TransientAs", di.AddTransientAs[IFakeService, *FakeService], di.TypeOf[IFakeService](), di.TypeOf[*FakeService](), di.Transient},
		{"ScopedSelf", di.AddScoped[*FakeService], di.TypeOf[*FakeService](), di.TypeOf[*FakeService](), di.Scoped},
		{"ScopedAs", di.AddScopedAs[IFakeService, *FakeService], di.TypeOf[IFakeService](), di.TypeOf[*FakeService](), di.Scoped},
		{"SingletonSelf", di.AddSingleton[*FakeService], di.TypeOf[*FakeService](), di.TypeOf[*FakeService](), di.Singleton},
		{"SingletonAs", di.AddSingletonAs[IFakeService, *FakeService], di.TypeOf[IFakeService](), di.TypeOf[*FakeService](), di.Singleton},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := di.NewServiceCollection()
			if tc.register(s) != s {
				t.Error("helper must return the collection for chaining")
			}
			if s.Count() != 1 {
				t.Fatalf("Count = %d, want 1", s.Count())
			}

			d := s.At(0)
			if d.ServiceType() != tc.service {
				t.Errorf("ServiceType = %v, want %v", d.ServiceType(), tc.service)
			}
			if d.ImplementationType() != tc.impl {
				t.Errorf("ImplementationType = %v, want %v", d.ImplementationType(), tc.impl)
			}
			if d.Lifetime() != tc.lifetime {
				t.Errorf("Lifetime = %v, want %v", d.Lifetime(), tc.lifetime)
			}
		})
	}
}

func TestAddFactoryFamilies(t *testing.T) {
	cases := []struct {
		name     string
		register func(*di.ServiceCollection, func(di.ServiceProvider) IFakeService) *di.ServiceCollection
		lifetime di.Lifetime
	}{
		{"Transient", di.AddTransientFactory[IFakeService], di.Transient},
		{"Scoped", di.AddScopedFactory[IFakeService], di.Scoped},
		{"Singleton", di.AddSingletonFactory[IFakeService], di.Singleton},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := di.NewServiceCollection()
			invoked := false
			tc.register(s, func(sp di.ServiceProvider) IFakeService {
				invoked = true
				return &FakeService{}
			})

			if s.Count() != 1 {
				t.Fatalf("Count = %d, want 1", s.Count())
			}

			d := s.At(0)
			if d.Lifetime() != tc.lifetime {
				t.Errorf("Lifetime = %v, want %v", d.Lifetime(), tc.lifetime)
			}
			if d.ImplementationType() != nil || d.ImplementationInstance() != nil {
				t.Error("type and instance must be absent for factory registration")
			}

			d.ImplementationFactory()(stubProvider{})
			if !invoked {
				t.Error("stored factory must invoke the function passed in")
			}
		})
	}
}

func TestAddInstance(t *testing.T) {
	s := di.NewServiceCollection()
	instance := &FakeService{val: "prebuilt"}

	di.AddInstance[IFakeService](s, instance)

	d := s.At(0)
	if d.Lifetime() != di.Singleton {
		t.Errorf("Lifetime = %v, want Singleton", d.Lifetime())
	}
	if d.ImplementationInstance() != any(instance) {
		t.Error("instance reference mismatch")
	}
}

func TestRepeatedAddsProduceRepeatedEntries(t *testing.T) {
	s := di.NewServiceCollection()

	di.AddSingletonAs[IFakeService, *FakeService](s)
	di.AddSingletonAs[IFakeService, *FakeService](s)
	di.AddSingletonAs[IFakeService, *AnotherFakeService](s)

	// 无条件注册族不做重复过滤
	if s.Count() != 3 {
		t.Fatalf("Count = %d, want 3", s.Count())
	}
}

func TestAddTypeValidation(t *testing.T) {
	s := di.NewServiceCollection()

	if err := di.AddType(s, nil, di.TypeOf[*FakeService](), di.Singleton); !errors.Is(err, di.ErrNilServiceType) {
		t.Errorf("got %v, want ErrNilServiceType", err)
	}
	if err := di.AddFactoryType(s, di.TypeOf[IFakeService](), nil, di.Singleton); !errors.Is(err, di.ErrNilFactory) {
		t.Errorf("got %v, want ErrNilFactory", err)
	}
	if err := di.AddInstanceType(s, di.TypeOf[IFakeService](), nil); !errors.Is(err, di.ErrNilInstance) {
		t.Errorf("got %v, want ErrNilInstance", err)
	}
	// 校验先于变更：集合保持为空
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}

	if err := di.AddType(s, di.TypeOf[IFakeService](), di.TypeOf[*FakeService](), di.Scoped); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestChaining(t *testing.T) {
	s := di.NewServiceCollection()

	di.AddInstance[IDependency](
		di.AddSingletonAs[IFakeService, *FakeService](s),
		&Dependency{},
	)

	if s.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s.Count())
	}
}

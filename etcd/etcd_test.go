package etcd_test

import (
	"strings"
	"testing"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/etcd"
)

func TestClientOptionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*etcd.ClientOptions)
		wantErr string
	}{
		{"valid defaults", func(o *etcd.ClientOptions) {}, ""},
		{"empty name", func(o *etcd.ClientOptions) { o.Name = "" }, "name is required"},
		{"no endpoints", func(o *etcd.ClientOptions) { o.Endpoints = nil }, "endpoints are required"},
		{"zero timeout", func(o *etcd.ClientOptions) { o.DialTimeout = 0 }, "must be positive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := etcd.NewDefaultOptions("config")
			tc.mutate(opts)
			err := opts.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestFactoryRegister(t *testing.T) {
	factory := etcd.NewClientFactory()

	if err := factory.Register(*etcd.NewDefaultOptions("config")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := factory.Register(*etcd.NewDefaultOptions("config")); err == nil {
		t.Error("duplicate Register should fail")
	}
	if err := factory.Register(etcd.ClientOptions{}); err == nil {
		t.Error("invalid options should fail")
	}

	if _, err := factory.Get("missing"); err == nil {
		t.Error("Get for unknown name should fail")
	}

	names := factory.Names()
	if len(names) != 1 || names[0] != "config" {
		t.Errorf("Names = %v", names)
	}
}

func TestBuilderDuplicateName(t *testing.T) {
	builder := etcd.NewBuilder()
	builder.AddClient("config", nil)
	builder.AddClient("config", nil)

	if _, err := builder.Build(); err == nil || !strings.Contains(err.Error(), "already configured") {
		t.Errorf("Build = %v, want duplicate-name error", err)
	}
}

func TestAddEtcdRegistersDescriptors(t *testing.T) {
	services := di.NewServiceCollection()

	etcd.AddEtcd(services, func(b *etcd.Builder) {
		b.AddClient("default", func(o *etcd.ClientOptions) {
			o.Endpoints = []string{"127.0.0.1:2379"}
		})
	})

	if services.First(di.TypeOf[*etcd.ClientFactory]()) == nil {
		t.Fatal("missing *ClientFactory registration")
	}

	clientDescriptor := services.First(di.TypeOf[*clientv3.Client]())
	if clientDescriptor == nil {
		t.Fatal("missing *clientv3.Client registration")
	}
	if clientDescriptor.Lifetime() != di.Singleton {
		t.Errorf("client lifetime = %v", clientDescriptor.Lifetime())
	}
}

func TestAddEtcdWithoutClientsRegistersNothing(t *testing.T) {
	services := di.NewServiceCollection()
	etcd.AddEtcd(services, nil)

	if services.Count() != 0 {
		t.Errorf("Count = %d, want 0", services.Count())
	}
}

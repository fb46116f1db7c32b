package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ClientFactory Redis 客户端工厂
// 注册只记录配置，客户端在首次 Get 时创建。
type ClientFactory struct {
	configs map[string]ClientOptions
	clients map[string]*redis.Client
	mu      sync.RWMutex
}

// NewClientFactory 创建客户端工厂
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		configs: make(map[string]ClientOptions),
		clients: make(map[string]*redis.Client),
	}
}

// Register 注册 Redis 客户端配置
func (f *ClientFactory) Register(opts ClientOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.configs[opts.Name]; exists {
		return fmt.Errorf("redis client '%s' already registered", opts.Name)
	}
	f.configs[opts.Name] = opts
	return nil
}

// Get 获取指定名称的 Redis 客户端，首次调用时创建
func (f *ClientFactory) Get(name string) (*redis.Client, error) {
	f.mu.RLock()
	client, ok := f.clients[name]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if client, ok := f.clients[name]; ok {
		return client, nil
	}

	opts, exists := f.configs[name]
	if !exists {
		return nil, fmt.Errorf("redis client '%s' not found", name)
	}

	client = redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
	})
	f.clients[name] = client
	return client, nil
}

// Names 返回已注册的客户端名称
func (f *ClientFactory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.configs))
	for name := range f.configs {
		names = append(names, name)
	}
	return names
}

// Ping 检查指定客户端的连通性
func (f *ClientFactory) Ping(ctx context.Context, name string) error {
	client, err := f.Get(name)
	if err != nil {
		return err
	}
	return client.Ping(ctx).Err()
}

// Close 关闭所有已创建的 Redis 客户端
func (f *ClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, client := range f.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close client '%s': %w", name, err))
		}
	}
	f.clients = make(map[string]*redis.Client)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing redis clients: %v", errs)
	}
	return nil
}

package etcd

import (
	"fmt"
	"sync"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// ClientFactory etcd 客户端工厂
// 注册只记录配置，客户端在首次 Get 时创建。
type ClientFactory struct {
	configs map[string]ClientOptions
	clients map[string]*clientv3.Client
	mu      sync.RWMutex
}

// NewClientFactory 创建客户端工厂
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		configs: make(map[string]ClientOptions),
		clients: make(map[string]*clientv3.Client),
	}
}

// Register 注册 etcd 客户端配置
func (f *ClientFactory) Register(opts ClientOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.configs[opts.Name]; exists {
		return fmt.Errorf("etcd client '%s' already registered", opts.Name)
	}
	f.configs[opts.Name] = opts
	return nil
}

// Get 获取指定名称的 etcd 客户端，首次调用时创建
func (f *ClientFactory) Get(name string) (*clientv3.Client, error) {
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
		return nil, fmt.Errorf("etcd client '%s' not found", name)
	}

	config := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	}
	if opts.Username != "" {
		config.Username = opts.Username
		config.Password = opts.Password
	}
	if opts.AutoSyncInterval > 0 {
		config.AutoSyncInterval = opts.AutoSyncInterval
	}
	if opts.MaxCallSendMsgSize > 0 {
		config.MaxCallSendMsgSize = opts.MaxCallSendMsgSize
	}
	if opts.MaxCallRecvMsgSize > 0 {
		config.MaxCallRecvMsgSize = opts.MaxCallRecvMsgSize
	}

	client, err := clientv3.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client '%s': %w", name, err)
	}
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

// Close 关闭所有已创建的 etcd 客户端
func (f *ClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, client := range f.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close client '%s': %w", name, err))
		}
	}
	f.clients = make(map[string]*clientv3.Client)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing etcd clients: %v", errs)
	}
	return nil
}

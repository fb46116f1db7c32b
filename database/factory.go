package database

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// Factory 数据库连接工厂
// 注册只记录配置，连接在首次 Get 时打开。
type Factory struct {
	configs map[string]Options
	dbs     map[string]*gorm.DB
	mu      sync.RWMutex
}

// NewFactory 创建数据库工厂
func NewFactory() *Factory {
	return &Factory{
		configs: make(map[string]Options),
		dbs:     make(map[string]*gorm.DB),
	}
}

// Register 注册数据库配置
func (f *Factory) Register(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.configs[opts.Name]; exists {
		return fmt.Errorf("database '%s' already registered", opts.Name)
	}
	f.configs[opts.Name] = opts
	return nil
}

// Get 获取指定名称的数据库连接，首次调用时打开并执行迁移
func (f *Factory) Get(name string) (*gorm.DB, error) {
	f.mu.RLock()
	db, ok := f.dbs[name]
	f.mu.RUnlock()
	if ok {
		return db, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if db, ok := f.dbs[name]; ok {
		return db, nil
	}

	opts, exists := f.configs[name]
	if !exists {
		return nil, fmt.Errorf("database '%s' not found", name)
	}

	db, err := gorm.Open(opts.Dialector, opts.GormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database '%s': %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB for '%s': %w", name, err)
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.MaxLifetime)

	if len(opts.AutoMigrate) > 0 {
		if err := db.AutoMigrate(opts.AutoMigrate...); err != nil {
			return nil, fmt.Errorf("auto migrate failed for '%s': %w", name, err)
		}
	}

	f.dbs[name] = db
	return db, nil
}

// Names 返回已注册的数据库名称
func (f *Factory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.configs))
	for name := range f.configs {
		names = append(names, name)
	}
	return names
}

// Close 关闭所有已打开的数据库连接
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, db := range f.dbs {
		sqlDB, err := db.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get sql.DB for '%s': %w", name, err))
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database '%s': %w", name, err))
		}
	}
	f.dbs = make(map[string]*gorm.DB)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing databases: %v", errs)
	}
	return nil
}

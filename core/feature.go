package core

import (
	"reflect"
	"sync"
)

// FeatureCollection 是一个类型安全的特性集合
// 用于存放 WebBuilder、DatabaseBuilder 等构建时产物
type FeatureCollection struct {
	features sync.Map
}

// Set 注册一个特性
func (fc *FeatureCollection) Set(feature any) {
	fc.features.Store(reflect.TypeOf(feature), feature)
}

// Get 获取一个特性
func (fc *FeatureCollection) Get(typ reflect.Type) (any, bool) {
	return fc.features.Load(typ)
}

// GetFeature 泛型辅助函数，从组合结果中获取特性
func GetFeature[T any](c *Composition) T {
	var zero T
	targetType := reflect.TypeOf((*T)(nil)).Elem()

	if val, ok := c.Features.Get(targetType); ok {
		return val.(T)
	}
	return zero
}

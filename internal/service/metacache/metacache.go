// Package metacache internal/service/metacache/metacache.go
package metacache

import (
	"context"
	"fmt"
	"log"
	"time"

	"KintoneAlert/internal/core/port"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const appListKey = "apps"

// Service 在 MetadataSource 之前提供缓存：
// 表单字段元数据走带过期时间的 LRU，应用列表走 TTL 缓存。
// singleflight 保证同一应用的并发未命中只触发一次上游调用。
type Service struct {
	source port.MetadataSource
	fields *lru.LRU[string, map[string]port.FieldProperty]
	apps   *gocache.Cache
	group  singleflight.Group
}

// New 创建一个新的 Service 实例。
// source: 元数据来源实例。
// maxCacheEntries: 字段缓存中允许的最大应用数。
// defaultCacheTTL: 缓存条目的默认过期时间。
func New(source port.MetadataSource, maxCacheEntries int, defaultCacheTTL time.Duration) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("metacache.Service 初始化失败: source 实例不能为 nil")
	}
	if maxCacheEntries <= 0 {
		maxCacheEntries = 1000 // 默认值
	}
	if defaultCacheTTL <= 0 {
		defaultCacheTTL = 5 * time.Minute // 默认值
	}

	return &Service{
		source: source,
		fields: lru.NewLRU[string, map[string]port.FieldProperty](maxCacheEntries, nil, defaultCacheTTL),
		apps:   gocache.New(defaultCacheTTL, 2*defaultCacheTTL),
	}, nil
}

// Apps 返回应用列表，优先命中缓存。
func (s *Service) Apps(ctx context.Context) ([]port.AppInfo, error) {
	if cached, ok := s.apps.Get(appListKey); ok {
		return cached.([]port.AppInfo), nil
	}

	v, err, _ := s.group.Do(appListKey, func() (any, error) {
		apps, err := s.source.FetchApps(ctx)
		if err != nil {
			return nil, fmt.Errorf("获取应用列表失败: %w", err)
		}
		s.apps.SetDefault(appListKey, apps)
		return apps, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]port.AppInfo), nil
}

// FormFields 返回指定应用的表单字段元数据，优先命中缓存。
func (s *Service) FormFields(ctx context.Context, appID string) (map[string]port.FieldProperty, error) {
	if cached, ok := s.fields.Get(appID); ok {
		return cached, nil
	}

	v, err, _ := s.group.Do("fields:"+appID, func() (any, error) {
		props, err := s.source.FetchFormFields(ctx, appID)
		if err != nil {
			return nil, fmt.Errorf("获取应用 '%s' 的表单字段失败: %w", appID, err)
		}
		s.fields.Add(appID, props)
		return props, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]port.FieldProperty), nil
}

// InvalidateApp 手动使指定应用的字段元数据缓存失效。
func (s *Service) InvalidateApp(appID string) {
	if appID == "" {
		return
	}
	s.fields.Remove(appID)
	log.Printf("信息: [MetaCache] 应用 '%s' 的字段元数据缓存已失效。", appID)
}

// InvalidateAll 清除所有缓存。
func (s *Service) InvalidateAll() {
	s.fields.Purge()
	s.apps.Flush()
	log.Printf("信息: [MetaCache] 所有元数据缓存已清除。")
}

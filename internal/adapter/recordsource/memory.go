// Package recordsource file: internal/adapter/recordsource/memory.go
package recordsource

import (
	"KintoneAlert/internal/core/domain"
	"KintoneAlert/internal/core/port"
	"context"
	"sort"
	"sync"
)

// 编译期断言
var (
	_ port.RecordSource   = (*Memory)(nil)
	_ port.MetadataSource = (*Memory)(nil)
)

// Memory 是内存实现的记录来源，供演练运行与测试使用。
// 它不解析查询语句：返回应用下的全部已灌入记录。
type Memory struct {
	mu      sync.RWMutex
	apps    map[string]string
	records map[string][]domain.Record
}

func NewMemory() *Memory {
	return &Memory{
		apps:    make(map[string]string),
		records: make(map[string][]domain.Record),
	}
}

// Seed 灌入一个应用及其记录，重复灌入会整体覆盖。
func (m *Memory) Seed(appID, name string, records []domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[appID] = name
	m.records[appID] = records
}

// FetchRecords 实现 port.RecordSource。未知应用返回 port.ErrAppNotFound。
func (m *Memory) FetchRecords(_ context.Context, appID string, _ []string, _ string) (*port.RecordResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.records[appID]
	if !ok {
		return nil, port.ErrAppNotFound
	}
	out := make([]domain.Record, len(records))
	copy(out, records)
	return &port.RecordResult{Records: out}, nil
}

// FetchApps 实现 port.MetadataSource。
func (m *Memory) FetchApps(_ context.Context) ([]port.AppInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	apps := make([]port.AppInfo, 0, len(m.apps))
	for id, name := range m.apps {
		apps = append(apps, port.AppInfo{AppID: id, Name: name})
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].AppID < apps[j].AppID })
	return apps, nil
}

// FetchFormFields 实现 port.MetadataSource，从首条记录推导字段元数据。
func (m *Memory) FetchFormFields(_ context.Context, appID string) (map[string]port.FieldProperty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.records[appID]
	if !ok {
		return nil, port.ErrAppNotFound
	}
	props := make(map[string]port.FieldProperty)
	if len(records) == 0 {
		return props, nil
	}
	for code, field := range records[0] {
		props[code] = port.FieldProperty{Code: code, Type: field.Type, Label: code}
	}
	return props, nil
}

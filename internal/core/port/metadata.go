// Package port file: internal/core/port/metadata.go
package port

import "context"

// AppInfo 描述一个可供选择的应用。
type AppInfo struct {
	AppID string `json:"appId"`
	Name  string `json:"name"`
}

// FieldProperty 描述一个字段的元数据。
type FieldProperty struct {
	Code  string `json:"code"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// MetadataSource 抽象了应用与表单字段元数据的获取能力，供缓存层包装。
type MetadataSource interface {
	FetchApps(ctx context.Context) ([]AppInfo, error)
	FetchFormFields(ctx context.Context, appID string) (map[string]FieldProperty, error)
}

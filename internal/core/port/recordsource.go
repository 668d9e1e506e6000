// Package port file: internal/core/port/recordsource.go
package port

import (
	"KintoneAlert/internal/core/domain"
	"context"
	"errors"
)

// Standard errors
var (
	ErrAppNotFound = errors.New("指定的应用未找到")
)

// RecordResult 是一次取数的标准返回。
type RecordResult struct {
	Records []domain.Record
}

// RecordSource 抽象了记录获取能力。HTTP 传输细节不属于核心，
// 由调用方注入具体实现；实现可以在内部分页，对外返回完整结果。
type RecordSource interface {
	// FetchRecords 取回指定应用中满足查询条件的记录，只投影 fields 列出的字段。
	// query 为空串时表示不过滤。
	FetchRecords(ctx context.Context, appID string, fields []string, query string) (*RecordResult, error)
}

// RecordPageSource 是单页粒度的取数契约，供分页包装器使用。
// pagedQuery 已经带上 "limit N offset M" 后缀。
type RecordPageSource interface {
	FetchPage(ctx context.Context, appID string, fields []string, pagedQuery string) (*RecordResult, error)
}

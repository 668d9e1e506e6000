// Package recordsource file: internal/adapter/recordsource/paginate.go
package recordsource

import (
	"KintoneAlert/internal/core/domain"
	"KintoneAlert/internal/core/port"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"
)

// 平台单次请求的最大读取条数与一次取数的总条数上限。
const (
	maxReadLimit    = 500
	maxTotalRecords = 10000
)

// 编译期断言，确保 Paginator 实现了 port.RecordSource 接口
var _ port.RecordSource = (*Paginator)(nil)

// Paginator 把单页粒度的取数契约包装成完整的 RecordSource：
// 按固定页大小循环翻页，直到返回不满一页或达到总量上限。
// limiter 可选，用于限制对平台 API 的请求频率。
type Paginator struct {
	pages   port.RecordPageSource
	limiter *rate.Limiter
}

// NewPaginator 创建分页包装器实例。limiter 传 nil 表示不限流。
func NewPaginator(pages port.RecordPageSource, limiter *rate.Limiter) (*Paginator, error) {
	if pages == nil {
		return nil, fmt.Errorf("Paginator 初始化失败: pages 实例不能为 nil")
	}
	return &Paginator{pages: pages, limiter: limiter}, nil
}

// FetchRecords 实现 port.RecordSource。
func (p *Paginator) FetchRecords(ctx context.Context, appID string, fields []string, query string) (*port.RecordResult, error) {
	all := make([]domain.Record, 0, maxReadLimit)
	offset := 0

	for len(all) < maxTotalRecords {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("等待限流令牌失败: %w", err)
			}
		}

		paged := pagedQuery(query, maxReadLimit, offset)
		slog.Debug("分页取数", "app_id", appID, "query", paged)

		page, err := p.pages.FetchPage(ctx, appID, fields, paged)
		if err != nil {
			return nil, fmt.Errorf("取回应用 '%s' 第 offset=%d 页失败: %w", appID, offset, err)
		}
		all = append(all, page.Records...)

		if len(page.Records) < maxReadLimit {
			break
		}
		offset += maxReadLimit
	}

	return &port.RecordResult{Records: all}, nil
}

// pagedQuery 在过滤表达式之后追加分页子句；无过滤时不带多余空格。
func pagedQuery(query string, limit, offset int) string {
	suffix := fmt.Sprintf("limit %d offset %d", limit, offset)
	if base := strings.TrimSpace(query); base != "" {
		return base + " " + suffix
	}
	return suffix
}

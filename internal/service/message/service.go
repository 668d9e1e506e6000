// Package message internal/service/message/service.go
package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"KintoneAlert/internal/core/domain"
	"KintoneAlert/internal/core/port"
	"KintoneAlert/internal/kquery"
	"KintoneAlert/internal/observe"
	"KintoneAlert/internal/placeholder"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// noRecordsNotice 是无记录可展示时给最终用户的提示文案（界面语言为日文）。
const noRecordsNotice = "表示対象のレコードはありません。"

const defaultFetchConcurrency = 4

// Service 编排一次通知生成：对每条规则计算必需字段、构建查询、
// 通过注入的 RecordSource 取数，再把模板逐条记录解析成最终消息。
// 跨调用无状态，可安全地反复触发。
type Service struct {
	config      *domain.PluginConfig
	source      port.RecordSource
	concurrency int
}

// New 创建一个新的 Service 实例。配置快照与取数来源都由调用方注入，
// 核心不读取任何平台全局对象。
func New(config *domain.PluginConfig, source port.RecordSource, concurrency int) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("message.Service 初始化失败: config 不能为 nil")
	}
	if source == nil {
		return nil, fmt.Errorf("message.Service 初始化失败: source 实例不能为 nil")
	}
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}
	return &Service{config: config, source: source, concurrency: concurrency}, nil
}

// FetchRecordsFromSettings 为每条规则取回匹配的记录。
// 各规则的取数相互独立、并发执行，结果按规则原始顺序回填，
// 保证下游输出顺序与完成顺序无关。
// 单条规则的失败只会使该规则降级为空结果，绝不影响其它规则。
func (s *Service) FetchRecordsFromSettings(ctx context.Context) []domain.SettingRecordPair {
	runID := uuid.NewString()
	pairs := make([]domain.SettingRecordPair, len(s.config.Settings))

	g, fetchCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.concurrency)

	for i, setting := range s.config.Settings {
		pairs[i].Setting = setting

		if strings.TrimSpace(setting.AppID) == "" || strings.TrimSpace(setting.Body) == "" {
			slog.Warn("规则缺少 appId 或 body，本轮不取数", "run_id", runID, "setting", setting.Name)
			continue
		}
		fields := placeholder.ExtractRequiredFields(setting)
		if len(fields) == 0 {
			slog.Warn("规则未引用任何字段，本轮不取数", "run_id", runID, "setting", setting.Name)
			continue
		}
		query := kquery.Build(setting.QueryConditions)

		idx, rule := i, setting
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-fetchCtx.Done():
				return fetchCtx.Err()
			}

			observe.FetchTotal.Inc()
			result, err := s.source.FetchRecords(fetchCtx, rule.AppID, fields, query)
			if err != nil {
				observe.FetchFailed.Inc()
				slog.Error("取数失败，该规则降级为空结果",
					"run_id", runID, "setting", rule.Name, "app_id", rule.AppID, "error", err)
				return nil
			}
			observe.RecordsFetched.Add(float64(len(result.Records)))
			pairs[idx].Records = result.Records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// 只有上下文取消会走到这里；已完成的取数结果照常返回。
		slog.Error("取数周期被中断", "run_id", runID, "error", err)
	}
	return pairs
}

// GenerateMessage 把每对 (规则, 记录) 渲染成消息文本。
// 模板对每条记录单独解析；解析后为空白的行被丢弃，
// 幸存的行加上规则前缀后用换行拼接，各规则的输出再用换行拼接。
func (s *Service) GenerateMessage(pairs []domain.SettingRecordPair) string {
	var sections []string
	for _, pair := range pairs {
		if strings.TrimSpace(pair.Setting.Body) == "" {
			// 取数阶段已经排除过空 body，这里按防御再挡一次。
			slog.Warn("规则的 body 为空，跳过消息生成", "setting", pair.Setting.Name)
			continue
		}

		var lines []string
		for _, record := range pair.Records {
			resolved := placeholder.ResolveDefault(pair.Setting.Body, record)
			if strings.TrimSpace(resolved) == "" {
				continue
			}
			lines = append(lines, pair.Setting.Prefix+resolved)
		}
		if len(lines) == 0 {
			continue
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	msg := strings.Join(sections, "\n")
	if msg != "" {
		observe.MessagesGenerated.Inc()
	}
	return msg
}

// GenerateLegacyMessage 是旧版生成模式：不走模板，
// 把每条记录中列出字段的值用空格拼成一行，整体只加一次前缀。
func (s *Service) GenerateLegacyMessage(records []domain.Record, fields []string, prefix string) string {
	lines := make([]string, 0, len(records))
	for _, record := range records {
		values := make([]string, 0, len(fields))
		for _, code := range fields {
			values = append(values, record[code].Value)
		}
		lines = append(lines, strings.Join(values, " "))
	}
	return prefix + strings.Join(lines, "\n")
}

// AlertMessage 是面向用户的出口：所有规则都没有记录时返回
// "没有可展示内容" 的提示，否则返回生成的消息文本。
func (s *Service) AlertMessage(pairs []domain.SettingRecordPair) string {
	total := 0
	for _, pair := range pairs {
		total += len(pair.Records)
	}
	if total == 0 {
		return noRecordsNotice
	}
	return s.GenerateMessage(pairs)
}

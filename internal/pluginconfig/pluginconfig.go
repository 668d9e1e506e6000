// Package pluginconfig 装载并校验插件配置快照。
// 兼容历史上的两种旧版布局：V1 把整个配置包在 "config" 属性里，
// V2 与当前形态一致（顶层直接是 "settings"）。
package pluginconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"KintoneAlert/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Parse 把 JSON 字节解析为配置快照，自动识别并迁移旧版布局。
func Parse(data []byte) (*domain.PluginConfig, error) {
	var probe struct {
		Config   json.RawMessage `json:"config"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("配置不是合法的 JSON 对象: %w", err)
	}

	// V1: {"config": {"settings": [...]}}
	payload := data
	if len(probe.Config) > 0 && len(probe.Settings) == 0 {
		payload = probe.Config
	}

	var cfg domain.PluginConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if cfg.Settings == nil {
		return nil, fmt.Errorf("无法识别的配置布局: 缺少 settings 属性")
	}
	return &cfg, nil
}

// Validate 校验配置快照。除结构体标签外，还做封闭组合检查：
// 每个过滤条件的 (字段类型, 操作符, 值形态) 必须恰好命中十一种合法组合之一。
// 越界的条件在这里被拒绝，核心因此不需要防御畸形条件。
func Validate(cfg *domain.PluginConfig) error {
	if cfg == nil {
		return fmt.Errorf("配置快照不能为 nil")
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("配置结构校验失败: %w", err)
	}

	for si, setting := range cfg.Settings {
		for ci, condition := range setting.QueryConditions {
			if err := validateCondition(condition); err != nil {
				return fmt.Errorf("设置 %d (%q) 的条件 %d 非法: %w", si, setting.Name, ci, err)
			}
		}
	}
	return nil
}

func validateCondition(c domain.FilterCondition) error {
	if c.FieldCode == "" {
		return fmt.Errorf("缺少 fieldCode")
	}
	if c.Value == nil {
		return fmt.Errorf("缺少值属性 (stringValue/arrayValue/entityValue 之一)")
	}
	switch c.LogicalOperator {
	case "", domain.LogicAnd, domain.LogicOr:
	default:
		return fmt.Errorf("非法的 logicalOperator %q", c.LogicalOperator)
	}

	pattern := domain.MatchPattern(c.FieldType, c.Operator)
	if pattern == nil {
		return fmt.Errorf("字段类型 %q 不支持操作符 %q", c.FieldType, c.Operator)
	}
	if pattern.ValueKind != c.Value.Kind() {
		return fmt.Errorf("字段类型 %q 配合操作符 %q 要求 %s 形态的值, 实际为 %s",
			c.FieldType, c.Operator, pattern.ValueKind, c.Value.Kind())
	}
	return nil
}

// Load 从文件读取、解析并校验配置快照。
func Load(path string) (*domain.PluginConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 '%s' 失败: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Package kquery 根据结构化的过滤条件构建 kintone 查询语句。
package kquery

import (
	"KintoneAlert/internal/core/domain"
	"log/slog"
	"strings"
)

// Build 把有序的过滤条件序列拼接成一条查询语句。
// 空输入返回空串，从不报错；条件的值形态由调用方在边界处校验，
// 这里信任和类型的分派结果（缺失值的条件跳过并记录警告）。
func Build(conditions []domain.FilterCondition) string {
	if len(conditions) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, c := range conditions {
		clause := formatCondition(c)
		if clause == "" {
			slog.Warn("过滤条件缺少值，已跳过", "field_code", c.FieldCode, "operator", c.Operator)
			continue
		}
		// 首个子句不带连接符；后续子句使用自身的 logicalOperator，缺省为 and。
		if sb.Len() > 0 {
			sb.WriteString(" ")
			sb.WriteString(normalizeLogic(c.LogicalOperator))
			sb.WriteString(" ")
		}
		sb.WriteString(clause)
	}
	return sb.String()
}

// formatCondition 按值形态渲染单个子句。值形态未知时返回空串。
func formatCondition(c domain.FilterCondition) string {
	switch v := c.Value.(type) {
	case domain.StringValue:
		return c.FieldCode + " " + c.Operator + " " + quote(string(v))
	case domain.ArrayValue:
		return c.FieldCode + " " + c.Operator + " (" + quoteList(v) + ")"
	case domain.EntityValue:
		codes := make([]string, 0, len(v))
		for _, e := range v {
			// name 仅供界面展示，查询语句只认 code。
			codes = append(codes, e.Code)
		}
		return c.FieldCode + " " + c.Operator + " (" + quoteList(codes) + ")"
	default:
		return ""
	}
}

func normalizeLogic(logic string) string {
	if strings.ToLower(strings.TrimSpace(logic)) == domain.LogicOr {
		return domain.LogicOr
	}
	return domain.LogicAnd
}

// quote 转义值中的双引号后包上引号。查询语法只要求转义双引号。
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func quoteList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, quote(item))
	}
	return strings.Join(quoted, ",")
}

// Package placeholder file: internal/placeholder/extract.go
package placeholder

import (
	"KintoneAlert/internal/core/domain"
	"strings"
)

// ExtractRequiredFields 计算一条规则取数时必须投影的顶层字段代码集合。
// 来源有两处：body 中的占位符（"表.子字段" 只取表本身），
// 以及 queryConditions 引用的字段（与原有取数行为保持一致）。
// 结果按首次出现顺序去重；body 为空的规则是惰性规则，直接返回空集。
// targetField / timestampField 不参与消息生成，永远不会被加入。
func ExtractRequiredFields(rule domain.NotificationRule) []string {
	if strings.TrimSpace(rule.Body) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var fields []string
	add := func(code string) {
		code = strings.TrimSpace(code)
		if code == "" {
			return
		}
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		fields = append(fields, code)
	}

	for _, match := range placeholderPattern.FindAllStringSubmatch(rule.Body, -1) {
		identifier := strings.TrimSpace(match[1])
		top, _, _ := strings.Cut(identifier, ".")
		add(top)
	}
	for _, condition := range rule.QueryConditions {
		add(condition.FieldCode)
	}
	return fields
}

// Package placeholder 解析消息模板中的 {字段} 占位符。
package placeholder

import (
	"KintoneAlert/internal/core/domain"
	"regexp"
	"strings"
)

// DefaultSeparator 是子表字段值拼接的缺省分隔符。
const DefaultSeparator = ", "

// placeholderPattern 匹配 {identifier} 形式的占位符。
// 不支持literal大括号转义，这是既定限制。
var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// fieldResolver 是字段取值策略：标量字段与子表字段各一种实现，
// 由 resolverFor 依据标识符中是否含 "." 纯函数式选取。
type fieldResolver interface {
	resolve(identifier string, record domain.Record, separator string) string
}

var (
	_ fieldResolver = scalarResolver{}
	_ fieldResolver = tableResolver{}
)

// Resolve 把模板中的占位符替换为记录里的字段值。
// 纯函数：无 I/O，无法失败；无法解析的占位符退化为空串。
func Resolve(template string, record domain.Record, separator string) string {
	if template == "" {
		return ""
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		identifier := strings.TrimSpace(match[1 : len(match)-1])
		if identifier == "" {
			return ""
		}
		return resolverFor(identifier).resolve(identifier, record, separator)
	})
}

// ResolveDefault 以缺省分隔符解析模板。
func ResolveDefault(template string, record domain.Record) string {
	return Resolve(template, record, DefaultSeparator)
}

func resolverFor(identifier string) fieldResolver {
	if strings.Contains(identifier, ".") {
		return tableResolver{}
	}
	return scalarResolver{}
}

// scalarResolver 直接按字段代码取值；字段缺失或值为空时退化为空串。
type scalarResolver struct{}

func (scalarResolver) resolve(identifier string, record domain.Record, _ string) string {
	field, ok := record[identifier]
	if !ok || field.IsSubtable() {
		return ""
	}
	return field.Value
}

// tableResolver 处理 "表字段.子字段" 形式：逐行抽取子字段值，
// 丢弃空白行后用分隔符拼接。
type tableResolver struct{}

func (tableResolver) resolve(identifier string, record domain.Record, separator string) string {
	tableCode, subCode, _ := strings.Cut(identifier, ".")
	tableCode = strings.TrimSpace(tableCode)
	subCode = strings.TrimSpace(subCode)

	field, ok := record[tableCode]
	if !ok || !field.IsSubtable() || len(field.Rows) == 0 {
		return ""
	}

	values := make([]string, 0, len(field.Rows))
	for _, row := range field.Rows {
		sub, ok := row.Value[subCode]
		if !ok || strings.TrimSpace(sub.Value) == "" {
			continue
		}
		values = append(values, sub.Value)
	}
	return strings.Join(values, separator)
}

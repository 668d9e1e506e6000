// Package domain file: internal/core/domain/condition.go
package domain

import (
	"encoding/json"
	"fmt"
)

// 逻辑连接符。序列中第一个条件的连接符永远不会被读取。
const (
	LogicAnd = "and"
	LogicOr  = "or"
)

// kintone 字段类型标识，与平台 REST API 返回的 type 字段一致。
const (
	FieldSingleLineText     = "SINGLE_LINE_TEXT"
	FieldLink               = "LINK"
	FieldNumber             = "NUMBER"
	FieldCalc               = "CALC"
	FieldMultiLineText      = "MULTI_LINE_TEXT"
	FieldRichText           = "RICH_TEXT"
	FieldRadioButton        = "RADIO_BUTTON"
	FieldDropDown           = "DROP_DOWN"
	FieldCheckBox           = "CHECK_BOX"
	FieldMultiSelect        = "MULTI_SELECT"
	FieldStatus             = "STATUS"
	FieldDate               = "DATE"
	FieldTime               = "TIME"
	FieldDateTime           = "DATETIME"
	FieldUserSelect         = "USER_SELECT"
	FieldOrganizationSelect = "ORGANIZATION_SELECT"
	FieldGroupSelect        = "GROUP_SELECT"
	FieldStatusAssignee     = "STATUS_ASSIGNEE"
	FieldSubtable           = "SUBTABLE"
)

// ValueKind 标识过滤条件携带的值形态。
type ValueKind string

const (
	ValueKindString ValueKind = "string"
	ValueKindArray  ValueKind = "array"
	ValueKindEntity ValueKind = "entity"
)

// Entity 表示平台主体（用户/组织/组）。查询语句只使用 code，name 仅供界面展示。
type Entity struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// ConditionValue 是过滤条件值的封闭和类型。
// 三种实现分别对应配置中 stringValue / arrayValue / entityValue 三个互斥属性。
type ConditionValue interface {
	Kind() ValueKind
}

type StringValue string

type ArrayValue []string

type EntityValue []Entity

func (StringValue) Kind() ValueKind { return ValueKindString }
func (ArrayValue) Kind() ValueKind  { return ValueKindArray }
func (EntityValue) Kind() ValueKind { return ValueKindEntity }

// FilterCondition 是一条记录过滤条件。
// Value 的具体形态由 (FieldType, Operator) 的合法组合决定，见 ConditionPatterns。
type FilterCondition struct {
	FieldCode       string
	FieldType       string
	Operator        string
	LogicalOperator string
	Value           ConditionValue
}

// conditionJSON 是存储形态：三个值属性最多出现一个。
type conditionJSON struct {
	FieldCode       string    `json:"fieldCode"`
	FieldType       string    `json:"fieldType"`
	Operator        string    `json:"operator"`
	LogicalOperator string    `json:"logicalOperator,omitempty"`
	StringValue     *string   `json:"stringValue,omitempty"`
	ArrayValue      *[]string `json:"arrayValue,omitempty"`
	EntityValue     *[]Entity `json:"entityValue,omitempty"`
}

// UnmarshalJSON 根据哪个值属性出现来决定 Value 的形态。
func (c *FilterCondition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("解析过滤条件失败: %w", err)
	}
	c.FieldCode = raw.FieldCode
	c.FieldType = raw.FieldType
	c.Operator = raw.Operator
	c.LogicalOperator = raw.LogicalOperator
	switch {
	case raw.StringValue != nil:
		c.Value = StringValue(*raw.StringValue)
	case raw.ArrayValue != nil:
		c.Value = ArrayValue(*raw.ArrayValue)
	case raw.EntityValue != nil:
		c.Value = EntityValue(*raw.EntityValue)
	default:
		c.Value = nil
	}
	return nil
}

func (c FilterCondition) MarshalJSON() ([]byte, error) {
	raw := conditionJSON{
		FieldCode:       c.FieldCode,
		FieldType:       c.FieldType,
		Operator:        c.Operator,
		LogicalOperator: c.LogicalOperator,
	}
	switch v := c.Value.(type) {
	case StringValue:
		s := string(v)
		raw.StringValue = &s
	case ArrayValue:
		a := []string(v)
		raw.ArrayValue = &a
	case EntityValue:
		e := []Entity(v)
		raw.EntityValue = &e
	}
	return json.Marshal(raw)
}

// ConditionPattern 描述一组合法的 (字段类型, 操作符, 值形态) 组合。
type ConditionPattern struct {
	FieldTypes []string
	Operators  []string
	ValueKind  ValueKind
}

// ConditionPatterns 是全部十一种合法组合，与配置 JSON Schema 的 oneOf 一一对应。
// 条件必须恰好落在其中一种组合内，越界的条件属于调用方错误，在配置装载时被拒绝。
var ConditionPatterns = []ConditionPattern{
	{ // 1. 文本类，字符串值操作符
		FieldTypes: []string{FieldSingleLineText, FieldLink},
		Operators:  []string{"=", "!=", "like", "not like"},
		ValueKind:  ValueKindString,
	},
	{ // 2. 文本类，数组值操作符
		FieldTypes: []string{FieldSingleLineText, FieldLink},
		Operators:  []string{"in", "not in"},
		ValueKind:  ValueKindArray,
	},
	{ // 3. 数值类，字符串值操作符
		FieldTypes: []string{FieldNumber, FieldCalc},
		Operators:  []string{"=", "!=", ">", ">=", "<", "<="},
		ValueKind:  ValueKindString,
	},
	{ // 4. 数值类，数组值操作符
		FieldTypes: []string{FieldNumber, FieldCalc},
		Operators:  []string{"in", "not in"},
		ValueKind:  ValueKindArray,
	},
	{ // 5. 多行文本
		FieldTypes: []string{FieldMultiLineText},
		Operators:  []string{"like", "not like", "is", "is not"},
		ValueKind:  ValueKindString,
	},
	{ // 6. 富文本
		FieldTypes: []string{FieldRichText},
		Operators:  []string{"like", "not like"},
		ValueKind:  ValueKindString,
	},
	{ // 7. 选择类字段
		FieldTypes: []string{FieldRadioButton, FieldDropDown, FieldCheckBox, FieldMultiSelect},
		Operators:  []string{"in", "not in"},
		ValueKind:  ValueKindArray,
	},
	{ // 8. 状态，字符串值操作符
		FieldTypes: []string{FieldStatus},
		Operators:  []string{"=", "!="},
		ValueKind:  ValueKindString,
	},
	{ // 9. 状态，数组值操作符
		FieldTypes: []string{FieldStatus},
		Operators:  []string{"in", "not in"},
		ValueKind:  ValueKindArray,
	},
	{ // 10. 日期时间类
		FieldTypes: []string{FieldDate, FieldTime, FieldDateTime},
		Operators:  []string{"=", "!=", ">", ">=", "<", "<="},
		ValueKind:  ValueKindString,
	},
	{ // 11. 主体类字段
		FieldTypes: []string{FieldUserSelect, FieldOrganizationSelect, FieldGroupSelect, FieldStatusAssignee},
		Operators:  []string{"in", "not in"},
		ValueKind:  ValueKindEntity,
	},
}

// MatchPattern 按 (字段类型, 操作符) 查找对应的合法组合，找不到时返回 nil。
func MatchPattern(fieldType, operator string) *ConditionPattern {
	for i := range ConditionPatterns {
		p := &ConditionPatterns[i]
		if containsString(p.FieldTypes, fieldType) && containsString(p.Operators, operator) {
			return p
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Package domain file: internal/core/domain/record.go
package domain

import (
	"encoding/json"
	"fmt"
)

// Record 是平台返回的一条记录：字段代码到字段对象的映射。对核心只读。
type Record map[string]FieldValue

// FieldValue 是一个字段对象。标量字段使用 Value；
// 子表字段 (Type == SUBTABLE) 使用 Rows，Value 保持为空。
type FieldValue struct {
	Type  string
	Value string
	Rows  []TableRow
}

// TableRow 是子表中的一行。
type TableRow struct {
	ID    string                `json:"id"`
	Value map[string]FieldValue `json:"value"`
}

// IsSubtable 报告该字段是否为子表字段。
func (f FieldValue) IsSubtable() bool { return f.Type == FieldSubtable }

// fieldValueJSON 对应线上传输形态：value 的含义由 type 区分，
// 标量字段为字符串或数字，子表字段为行数组。
type fieldValueJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (f *FieldValue) UnmarshalJSON(data []byte) error {
	var raw fieldValueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("解析字段对象失败: %w", err)
	}
	f.Type = raw.Type
	f.Value = ""
	f.Rows = nil
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}
	if raw.Type == FieldSubtable {
		if err := json.Unmarshal(raw.Value, &f.Rows); err != nil {
			return fmt.Errorf("解析子表行失败: %w", err)
		}
		return nil
	}
	// 标量值：字符串直接使用，数字保留其十进制字面量。
	var s string
	if err := json.Unmarshal(raw.Value, &s); err == nil {
		f.Value = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.Value, &n); err == nil {
		f.Value = n.String()
		return nil
	}
	// 其余形态（数组等复合值）不参与消息生成，按空值处理。
	return nil
}

func (f FieldValue) MarshalJSON() ([]byte, error) {
	if f.IsSubtable() {
		rows := f.Rows
		if rows == nil {
			rows = []TableRow{}
		}
		return json.Marshal(struct {
			Type  string     `json:"type"`
			Value []TableRow `json:"value"`
		}{f.Type, rows})
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{f.Type, f.Value})
}

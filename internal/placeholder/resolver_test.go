// file: internal/placeholder/resolver_test.go

package placeholder

import (
	"testing"

	"KintoneAlert/internal/core/domain"
)

func scalar(value string) domain.FieldValue {
	return domain.FieldValue{Type: domain.FieldSingleLineText, Value: value}
}

func subtable(rows ...map[string]domain.FieldValue) domain.FieldValue {
	table := domain.FieldValue{Type: domain.FieldSubtable}
	for i, row := range rows {
		table.Rows = append(table.Rows, domain.TableRow{ID: string(rune('1' + i)), Value: row})
	}
	return table
}

// -----------------------------------------------------------------------------
// 标量字段
// -----------------------------------------------------------------------------

func TestResolve_NoPlaceholders(t *testing.T) {
	record := domain.Record{"name": scalar("田中")}
	template := "固定文本，没有占位符"
	if got := ResolveDefault(template, record); got != template {
		t.Errorf("无占位符的模板应原样返回, got=%q", got)
	}
}

func TestResolve_ScalarField(t *testing.T) {
	record := domain.Record{
		"name": scalar("田中"),
		"age":  {Type: domain.FieldNumber, Value: "25"},
	}
	got := ResolveDefault("こんにちは {name} さん（{age}歳）", record)
	want := "こんにちは 田中 さん（25歳）"
	if got != want {
		t.Errorf("标量替换不匹配\n  got : %s\n  want: %s", got, want)
	}
}

func TestResolve_MissingFieldBecomesEmpty(t *testing.T) {
	record := domain.Record{"name": scalar("田中")}
	if got := ResolveDefault("{missing}", record); got != "" {
		t.Errorf("缺失字段应退化为空串, got=%q", got)
	}
}

func TestResolve_RepeatedPlaceholder(t *testing.T) {
	record := domain.Record{"a": scalar("x")}
	if got := ResolveDefault("{a}{a}", record); got != "xx" {
		t.Errorf("重复占位符应各自替换, got=%q", got)
	}
}

func TestResolve_WhitespaceTrimmedInsideBraces(t *testing.T) {
	record := domain.Record{"name": scalar("田中")}
	if got := ResolveDefault("{ name }", record); got != "田中" {
		t.Errorf("大括号内空白应被去除, got=%q", got)
	}
}

func TestResolve_EmptyTemplate(t *testing.T) {
	if got := ResolveDefault("", domain.Record{}); got != "" {
		t.Errorf("空模板应返回空串, got=%q", got)
	}
}

// -----------------------------------------------------------------------------
// 子表字段
// -----------------------------------------------------------------------------

func TestResolve_TableField(t *testing.T) {
	record := domain.Record{
		"items": subtable(
			map[string]domain.FieldValue{"name": scalar("商品A")},
			map[string]domain.FieldValue{"name": scalar("商品B")},
		),
	}
	got := ResolveDefault("取扱商品: {items.name}", record)
	want := "取扱商品: 商品A, 商品B"
	if got != want {
		t.Errorf("子表替换不匹配\n  got : %s\n  want: %s", got, want)
	}
}

func TestResolve_TableFieldBlankRowsDropped(t *testing.T) {
	record := domain.Record{
		"t": subtable(
			map[string]domain.FieldValue{"s": scalar("A")},
			map[string]domain.FieldValue{"s": scalar("")},
			map[string]domain.FieldValue{"s": scalar("C")},
		),
	}
	if got := ResolveDefault("{t.s}", record); got != "A, C" {
		t.Errorf("空白行应被丢弃, got=%q", got)
	}
}

func TestResolve_TableFieldCustomSeparator(t *testing.T) {
	record := domain.Record{
		"t": subtable(
			map[string]domain.FieldValue{"s": scalar("A")},
			map[string]domain.FieldValue{"s": scalar("B")},
		),
	}
	if got := Resolve("{t.s}", record, " / "); got != "A / B" {
		t.Errorf("自定义分隔符未生效, got=%q", got)
	}
}

func TestResolve_DotOnScalarField(t *testing.T) {
	// 标识符带点但字段不是子表时退化为空串
	record := domain.Record{"name": scalar("田中")}
	if got := ResolveDefault("{name.sub}", record); got != "" {
		t.Errorf("非子表字段的表路径应退化为空串, got=%q", got)
	}
}

func TestResolve_EmptyTable(t *testing.T) {
	record := domain.Record{"items": {Type: domain.FieldSubtable}}
	if got := ResolveDefault("{items.name}", record); got != "" {
		t.Errorf("空子表应退化为空串, got=%q", got)
	}
}

func TestResolve_SubtableAsScalarPlaceholder(t *testing.T) {
	// 子表字段用作标量占位符时退化为空串
	record := domain.Record{"items": subtable(map[string]domain.FieldValue{"s": scalar("A")})}
	if got := ResolveDefault("x{items}y", record); got != "xy" {
		t.Errorf("子表字段按标量引用应退化为空串, got=%q", got)
	}
}

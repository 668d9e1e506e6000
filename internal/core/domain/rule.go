// Package domain file: internal/core/domain/rule.go
package domain

// NotificationRule 是一条通知规则：查询哪个应用、用什么条件过滤、
// 以及如何把取到的记录渲染成消息行。由配置界面编辑，核心只读。
type NotificationRule struct {
	Name            string            `json:"name"`
	AppID           string            `json:"appId" validate:"omitempty,numeric"`
	TargetField     string            `json:"targetField,omitempty"`
	TimestampField  string            `json:"timestampField,omitempty"`
	Prefix          string            `json:"prefix"`
	Body            string            `json:"body"`
	QueryConditions []FilterCondition `json:"queryConditions,omitempty"`
}

// CommonSetting 是旧版配置保留下来的全局设置。
type CommonSetting struct {
	Prefix string `json:"prefix,omitempty"`
}

// PluginConfig 是插件配置的完整快照。核心在一次调用内持有它，从不修改。
type PluginConfig struct {
	Settings      []NotificationRule `json:"settings" validate:"dive"`
	CommonSetting *CommonSetting     `json:"commonSetting,omitempty"`
}

// SettingRecordPair 把一条规则和为它取回的记录绑在一起。
// 每次取数周期新建，消息生成消费一次后即丢弃。
type SettingRecordPair struct {
	Setting NotificationRule
	Records []Record
}

// Package model 周报流水线各层共享的数据结构。
package model

// FieldKind 字段类型，决定记录存储的属性映射和 HTML 的渲染方式
type FieldKind string

const (
	KindTitle FieldKind = "title"
	KindText  FieldKind = "text"
	KindDate  FieldKind = "date"
	KindURL   FieldKind = "url"
)

// Field 栏目 Schema 中的一个字段。
// Name 同时是 JSON 键名和 Notion 数据库的列名，Label 是展示用中文名。
type Field struct {
	Name  string
	Label string
	Kind  FieldKind
}

// Record 一条归一化后的记录，键为字段名。
// 归一化保证 Schema 的每个字段都有非空值。
type Record map[string]string

// Period 报告覆盖的日期区间，格式 YYYY-MM-DD
type Period struct {
	Start string
	End   string
}

// ReportMeta 周报主表（Report Master）信息
type ReportMeta struct {
	Title          string `json:"title"`
	WeekStart      string `json:"report_week_start"`
	WeekEnd        string `json:"report_week_end"`
	Status         string `json:"status"`
	OverallSummary string `json:"overall_summary"`
}

// SectionData 单个栏目的聚合结果
type SectionData struct {
	Name    string
	Key     string
	Fields  []Field
	Display []string
	Records []Record
}

// FieldByName 按字段名查找 Schema 中的字段
func (s *SectionData) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Report 一次完整运行的聚合结果
type Report struct {
	Meta     ReportMeta
	Sections []SectionData
}

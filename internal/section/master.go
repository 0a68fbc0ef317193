package section

import (
	"fmt"

	"github.com/iWorld-y/sre_weekly/internal/extract"
	"github.com/iWorld-y/sre_weekly/internal/model"
)

// MasterKey 主报告在配置 databases 中的键
const MasterKey = "report"

// MasterFields 周报主表（Report Master）写入 Notion 的字段。
// overall_summary 只进入邮件正文，不落主表。
var MasterFields = []model.Field{
	{Name: "title", Label: "标题", Kind: model.KindTitle},
	{Name: "report_week_start", Label: "开始日期", Kind: model.KindDate},
	{Name: "report_week_end", Label: "结束日期", Kind: model.KindDate},
	{Name: "status", Label: "状态", Kind: model.KindText},
}

// DefaultTitle 周报预设标题
func DefaultTitle(p model.Period) string {
	return fmt.Sprintf("全球运维与 AI 周报 (%s - %s)", p.Start, p.End)
}

// BuildMasterPrompt 渲染主报告提示词：标题与日期使用预设值，
// 只让模型生成本周总体摘要。
func BuildMasterPrompt(p model.Period) string {
	return fmt.Sprintf(`请根据可联网搜索到的过去一周（%s 至 %s）的行业新闻和技术进展，生成周报的**标题**和**本周总体摘要**（overall_summary）。
周报的主题是全球 SRE 运维和人工智能领域。
请严格按照以下 JSON 结构返回数据，**不允许添加任何 Markdown 格式或额外文本**。
JSON 结构中的 'title'、'report_week_start' 和 'report_week_end' 请使用我提供的预设值。
JSON 结构: {
    "title": "%s",
    "report_week_start": "%s",
    "report_week_end": "%s",
    "status": "Draft",
    "overall_summary": "此处填写本周运维与AI领域的综合性总结"
}`, p.Start, p.End, DefaultTitle(p), p.Start, p.End)
}

// NormalizeMaster 归一化主报告载荷。日期强制使用预设周期，
// 模型对这两个值的改写不可信。
func NormalizeMaster(payload map[string]any, p model.Period) model.ReportMeta {
	meta := model.ReportMeta{
		Title:          stringOr(payload, "title", DefaultTitle(p)),
		WeekStart:      p.Start,
		WeekEnd:        p.End,
		Status:         stringOr(payload, "status", "Draft"),
		OverallSummary: stringOr(payload, "overall_summary", Sentinel),
	}
	return meta
}

// MasterRecord 把主报告信息转换为记录存储可写入的形式
func MasterRecord(meta model.ReportMeta) model.Record {
	return model.Record{
		"title":             meta.Title,
		"report_week_start": meta.WeekStart,
		"report_week_end":   meta.WeekEnd,
		"status":            meta.Status,
	}
}

// ParseMaster 从原始响应提取并归一化主报告，失败时返回提取错误
func ParseMaster(raw string, p model.Period) (model.ReportMeta, *extract.Error) {
	payload, err := extract.Payload(raw)
	if err != nil {
		return model.ReportMeta{}, err
	}
	return NormalizeMaster(payload, p), nil
}

func stringOr(payload map[string]any, key, fallback string) string {
	v := stringify(payload[key])
	if v == "" {
		return fallback
	}
	return v
}

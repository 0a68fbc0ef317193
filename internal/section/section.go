// Package section 定义各栏目的提示词模板与输出 Schema，并提供
// 统一的 构建提示词 -> 查询 -> 提取 -> 归一化 流水线。
// 各栏目只在参数（模板、顶层键、字段表）上不同，流程完全一致。
package section

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iWorld-y/sre_weekly/internal/extract"
	"github.com/iWorld-y/sre_weekly/internal/logger"
	"github.com/iWorld-y/sre_weekly/internal/model"
)

const (
	// Sentinel 缺失文本字段的占位值
	Sentinel = "N/A"
	// NoLink 链接缺失标记。Notion 的 url 列拒绝空字符串，
	// 落库时该标记会被转换为 null。
	NoLink = "N/A"
)

// Spec 一个栏目的完整规格：提示词参数 + 固定输出 Schema
type Spec struct {
	Name        string // 展示名
	Key         string // JSON 顶层键，同时作为配置中数据库 ID 的键
	Instruction string // 栏目主题描述，嵌入提示词模板
	Example     string // 示例 JSON 结构，嵌入提示词模板
	Note        string // 额外格式要求，可为空
	MinItems    int
	IdealItems  int
	LinkField   string // 必填链接字段名
	Fields      []model.Field
	Display     []string // HTML 报告展示的字段（按顺序）
}

// BuildPrompt 渲染栏目提示词：固定中文指令模板，参数化报告周期与条数约束
func (s Spec) BuildPrompt(p model.Period) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "请根据可联网搜索到的信息，提供 **至少 %d 条，最好 %d 条** %s。\n", s.MinItems, s.IdealItems, s.Instruction)
	fmt.Fprintf(&sb, "请聚焦 %s 至 %s 期间的内容。\n", p.Start, p.End)
	sb.WriteString("请严格按照以下 JSON 结构返回数据，**不允许添加任何 Markdown 格式或额外文本**。\n\n")
	sb.WriteString("**【强制约束】**\n")
	fmt.Fprintf(&sb, "1. **内容数量**: 必须提供至少 %d 条记录，理想是 %d 条。\n", s.MinItems, s.IdealItems)
	fmt.Fprintf(&sb, "2. **链接**: 字段 `%s` 必须包含一个有效的 URL 链接，**不允许为空**。如果找不到链接，请不要返回该条记录。\n", s.LinkField)
	if s.Note != "" {
		sb.WriteString("\n" + s.Note + "\n")
	}
	fmt.Fprintf(&sb, "JSON 结构: %s\n", s.Example)
	return sb.String()
}

// Normalize 把 AI 返回的原始条目映射到固定 Schema：
// 缺失文本字段填占位值，缺失日期回退到 defaultDate，
// 链接字段必须以 URL scheme 开头，否则写入缺失标记。
func (s Spec) Normalize(items []any, defaultDate string) []model.Record {
	var records []model.Record
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		rec := make(model.Record, len(s.Fields))
		for _, f := range s.Fields {
			v := stringify(obj[f.Name])
			switch f.Kind {
			case model.KindURL:
				if !IsLink(v) {
					v = NoLink
				}
			case model.KindDate:
				if v == "" {
					v = defaultDate
				}
			default:
				if v == "" {
					v = Sentinel
				}
			}
			rec[f.Name] = v
		}
		records = append(records, rec)
	}
	return records
}

// IsLink 链接有效性判定：必须以 URL scheme 开头
func IsLink(v string) bool {
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}

// stringify 宽容地把任意 JSON 值转成字符串
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Generator 查询客户端接口，由 gemini.Client 实现
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AlertFunc 告警回调
type AlertFunc func(subject, body string)

// Pipeline 通用栏目流水线
type Pipeline struct {
	gen   Generator
	alert AlertFunc
}

// NewPipeline 创建流水线。alert 可为 nil。
func NewPipeline(gen Generator, alert AlertFunc) *Pipeline {
	return &Pipeline{gen: gen, alert: alert}
}

// Run 驱动一个栏目端到端。任何阶段失败都只让该栏目产出空列表，
// 不会中断整次运行；查询阶段的重试与告警由客户端负责。
func (p *Pipeline) Run(ctx context.Context, spec Spec, period model.Period) []model.Record {
	prompt := spec.BuildPrompt(period)

	raw, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Log.Errorf("栏目 [%s] 查询失败: %v", spec.Name, err)
		return nil
	}

	payload, exErr := extract.Payload(raw)
	if exErr != nil {
		logger.Log.Errorf("栏目 [%s] JSON 解析失败: %v", spec.Name, exErr)
		logger.Log.Errorf("--- 完整原始文本 (JSON 解析失败) ---\n%s\n---------------------------------------", exErr.Raw)
		if p.alert != nil {
			subject := fmt.Sprintf("SRE/AI 报告生成失败 (JSON解析错误) - %s", spec.Name)
			body := fmt.Sprintf("AI 返回的 JSON 格式错误 (%s): %v\n\n请检查 AI 响应的原始文本:\n%s",
				spec.Name, exErr, truncateRunes(exErr.Raw, 2000))
			p.alert(subject, body)
		}
		return nil
	}

	items := extract.Items(payload, spec.Key)
	if len(items) == 0 {
		logger.Log.Warnf("栏目 [%s] 未返回任何记录", spec.Name)
		return nil
	}

	records := spec.Normalize(items, period.End)
	logger.Log.Infof("栏目 [%s] 归一化完成，共 %d 条记录", spec.Name, len(records))
	return records
}

// truncateRunes 邮件正文中截断超长原文；日志中始终保留完整原文
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

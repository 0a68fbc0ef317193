package section

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/sre_weekly/internal/model"
)

var testPeriod = model.Period{Start: "2025-08-20", End: "2025-08-26"}

func testSpec() Spec {
	return Spec{
		Name:        "测试栏目",
		Key:         "items",
		Instruction: "测试条目",
		MinItems:    3,
		IdealItems:  5,
		LinkField:   "link",
		Example:     `{"items": [{"title": "示例", "summary": "...", "link": "https://example.com"}]}`,
		Fields: []model.Field{
			{Name: "title", Label: "标题", Kind: model.KindTitle},
			{Name: "summary", Label: "摘要", Kind: model.KindText},
			{Name: "link", Label: "链接", Kind: model.KindURL},
			{Name: "date", Label: "日期", Kind: model.KindDate},
		},
		Display: []string{"title", "summary", "link"},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := testSpec().BuildPrompt(testPeriod)

	// 条数约束与报告周期必须进入提示词
	assert.Contains(t, prompt, "至少 3 条，最好 5 条")
	assert.Contains(t, prompt, "2025-08-20 至 2025-08-26")
	assert.Contains(t, prompt, "`link`")
	assert.Contains(t, prompt, `"items"`)
	assert.Contains(t, prompt, "不允许添加任何 Markdown 格式")
}

func TestNormalize_MissingFieldsGetDefaults(t *testing.T) {
	items := []any{map[string]any{"title": "A"}}

	records := testSpec().Normalize(items, testPeriod.End)
	require.Len(t, records, 1)
	rec := records[0]

	// 缺失字段必须有占位值，而不是缺键
	assert.Equal(t, "A", rec["title"])
	assert.Equal(t, Sentinel, rec["summary"])
	assert.Equal(t, NoLink, rec["link"])
	assert.Equal(t, testPeriod.End, rec["date"])
	for _, f := range testSpec().Fields {
		_, ok := rec[f.Name]
		assert.True(t, ok, "field %s missing", f.Name)
	}
}

func TestNormalize_LinkCoercion(t *testing.T) {
	cases := map[string]string{
		"https://example.com/x": "https://example.com/x",
		"http://example.com/x":  "http://example.com/x",
		"ftp://example.com/x":   NoLink,
		"example.com/x":         NoLink,
		"":                      NoLink,
		"N/A":                   NoLink,
	}
	for in, want := range cases {
		records := testSpec().Normalize([]any{map[string]any{"title": "t", "link": in}}, testPeriod.End)
		require.Len(t, records, 1)
		got := records[0]["link"]
		assert.Equal(t, want, got, "link=%q", in)
		assert.NotEmpty(t, got, "链接字段永远不能是空字符串")
	}
}

func TestNormalize_NonStringValues(t *testing.T) {
	items := []any{map[string]any{"title": float64(42), "summary": true}}

	records := testSpec().Normalize(items, testPeriod.End)
	require.Len(t, records, 1)
	assert.Equal(t, "42", records[0]["title"])
	assert.Equal(t, "true", records[0]["summary"])
}

func TestNormalize_SkipsNonObjectItems(t *testing.T) {
	items := []any{"字符串条目", map[string]any{"title": "A"}}

	records := testSpec().Normalize(items, testPeriod.End)
	assert.Len(t, records, 1)
}

// stubGen 可编程的查询客户端
type stubGen struct {
	raw string
	err error
}

func (s *stubGen) Generate(ctx context.Context, prompt string) (string, error) {
	return s.raw, s.err
}

func TestPipeline_EndToEnd(t *testing.T) {
	gen := &stubGen{raw: `Here is the result: {"items":[{"title":"A"}]} Thanks!`}
	p := NewPipeline(gen, nil)

	records := p.Run(context.Background(), testSpec(), testPeriod)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0]["title"])
	assert.Equal(t, Sentinel, records[0]["summary"])
	assert.Equal(t, NoLink, records[0]["link"])
}

func TestPipeline_QueryFailureYieldsEmpty(t *testing.T) {
	gen := &stubGen{err: errors.New("boom")}
	p := NewPipeline(gen, nil)

	records := p.Run(context.Background(), testSpec(), testPeriod)
	assert.Empty(t, records)
}

func TestPipeline_ExtractFailureAlertsWithRawText(t *testing.T) {
	gen := &stubGen{raw: "完全不是 JSON 的回答"}

	var subjects, bodies []string
	p := NewPipeline(gen, func(subject, body string) {
		subjects = append(subjects, subject)
		bodies = append(bodies, body)
	})

	records := p.Run(context.Background(), testSpec(), testPeriod)
	assert.Empty(t, records)

	// 解析失败必须带着原文告警，便于事后排查
	require.Len(t, subjects, 1)
	assert.Contains(t, subjects[0], "JSON解析错误")
	assert.Contains(t, subjects[0], "测试栏目")
	assert.Contains(t, bodies[0], "完全不是 JSON 的回答")
}

func TestPipeline_MissingKeyYieldsEmpty(t *testing.T) {
	gen := &stubGen{raw: `{"otherKey":[{"title":"A"}]}`}
	p := NewPipeline(gen, nil)

	records := p.Run(context.Background(), testSpec(), testPeriod)
	assert.Empty(t, records)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "短文本", truncateRunes("短文本", 2000))
	long := make([]rune, 0, 3000)
	for i := 0; i < 3000; i++ {
		long = append(long, '长')
	}
	assert.Len(t, []rune(truncateRunes(string(long), 2000)), 2000)
}

func TestSpecs_FixedOrderAndSchemas(t *testing.T) {
	specs := Specs()
	require.Len(t, specs, 5)

	wantKeys := []string{"sreDynamics", "failureIncidents", "aiNews", "aiLearning", "aiBusinessOpportunity"}
	for i, sp := range specs {
		assert.Equal(t, wantKeys[i], sp.Key)
		assert.NotEmpty(t, sp.Fields)
		assert.NotEmpty(t, sp.LinkField)
		// 展示列必须是 Schema 的子集
		for _, name := range sp.Display {
			found := false
			for _, f := range sp.Fields {
				if f.Name == name {
					found = true
				}
			}
			assert.True(t, found, "section %s display field %s not in schema", sp.Key, name)
		}
		// 必填链接字段必须声明为 URL 类型
		for _, f := range sp.Fields {
			if f.Name == sp.LinkField {
				assert.Equal(t, model.KindURL, f.Kind)
			}
		}
	}
}

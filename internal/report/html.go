// Package report 把聚合结果渲染成 HTML 周报，用于邮件正文与本地存档。
package report

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/iWorld-y/sre_weekly/internal/model"
	"github.com/iWorld-y/sre_weekly/internal/section"
)

// viewData 模板渲染的数据，全部单元格在 Go 侧预先组装
type viewData struct {
	Title    string
	Start    string
	End      string
	Summary  template.HTML
	Sections []viewSection
}

type viewSection struct {
	Title   string
	Headers []string
	Rows    [][]template.HTML
}

// Render 渲染完整周报 HTML。没有记录的栏目不展示表格。
func Render(r model.Report) (string, error) {
	data := viewData{
		Title:   r.Meta.Title,
		Start:   r.Meta.WeekStart,
		End:     r.Meta.WeekEnd,
		Summary: nl2br(r.Meta.OverallSummary),
	}

	for i, s := range r.Sections {
		if len(s.Records) == 0 {
			continue
		}
		vs := viewSection{
			// 第 1 节固定是总体摘要，栏目从 2 开始编号
			Title: fmt.Sprintf("%d. %s", i+2, s.Name),
		}
		for _, name := range s.Display {
			f, _ := s.FieldByName(name)
			vs.Headers = append(vs.Headers, f.Label)
		}
		for _, rec := range s.Records {
			var row []template.HTML
			for j, name := range s.Display {
				f, _ := s.FieldByName(name)
				row = append(row, renderCell(f, rec[name], j == 0))
			}
			vs.Rows = append(vs.Rows, row)
		}
		data.Sections = append(data.Sections, vs)
	}

	t, err := template.New("report").Parse(htmlTpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile 把渲染好的 HTML 写到本地存档文件
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// renderCell 组装单元格：链接字段渲染为超链接，长文本换行转 <br>，
// 首列加粗。
func renderCell(f model.Field, v string, strong bool) template.HTML {
	var out string
	if f.Kind == model.KindURL {
		if section.IsLink(v) {
			out = fmt.Sprintf(`<a href="%s" target="_blank">查看链接</a>`, html.EscapeString(v))
		} else {
			out = "N/A"
		}
	} else {
		out = string(nl2br(v))
	}
	if strong {
		out = "<strong>" + out + "</strong>"
	}
	return template.HTML(out)
}

func nl2br(v string) template.HTML {
	escaped := html.EscapeString(v)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

const htmlTpl = `<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <meta charset="utf-8">
    <style>
        body { font-family: 'Inter', sans-serif; margin: 0; padding: 20px; background-color: #f4f7f6; color: #333; }
        .container { max-width: 900px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; box-shadow: 0 4px 20px rgba(0, 0, 0, 0.05); padding: 30px; }
        .header { text-align: center; border-bottom: 2px solid #e0e0e0; padding-bottom: 20px; margin-bottom: 20px; }
        .header h1 { font-size: 28px; color: #1a1a1a; margin: 0; }
        .header p { color: #777; font-size: 14px; margin-top: 5px; }
        .section { margin-bottom: 30px; }
        .section-title { font-size: 22px; color: #3498db; border-left: 4px solid #3498db; padding-left: 10px; margin-bottom: 15px; font-weight: bold; }
        .content p { line-height: 1.8; font-size: 16px; }
        .data-table { width: 100%; border-collapse: collapse; margin-top: 10px; }
        .data-table th, .data-table td { padding: 10px; border: 1px solid #e0e0e0; text-align: left; font-size: 13px; vertical-align: top; }
        .data-table th { background-color: #f0f0f0; font-weight: 600; }
        .data-table tr:nth-child(even) { background-color: #fafafa; }
        .table-container { overflow-x: auto; }
        a { color: #3498db; text-decoration: none; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>覆盖日期: {{.Start}} - {{.End}} | 由 Gemini AI 驱动</p>
        </div>

        <div class="section">
            <h2 class="section-title">1. 本周总体摘要 (Overall Summary)</h2>
            <div class="content">
                <p>{{.Summary}}</p>
            </div>
        </div>

        {{range .Sections}}
        <div class="section">
            <h2 class="section-title">{{.Title}}</h2>
            <div class="table-container">
                <table class="data-table">
                    <thead>
                        <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
                    </thead>
                    <tbody>
                        {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
        </div>
        {{end}}

        <div class="section">
            <p style="text-align: center; color: #999; font-size: 12px; margin-top: 40px;">
                数据已同步到 Notion 数据库。
            </p>
        </div>
    </div>
</body>
</html>
`

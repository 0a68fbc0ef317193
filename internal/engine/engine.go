// Package engine 周报编排器：先跑必须成功的主报告，再按声明顺序
// 依次跑各栏目，聚合结果后交给记录存储、归档库与邮件通知。
// 各栏目串行执行，单个栏目失败不影响其余栏目。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/sre_weekly/internal/config"
	"github.com/iWorld-y/sre_weekly/internal/logger"
	"github.com/iWorld-y/sre_weekly/internal/model"
	"github.com/iWorld-y/sre_weekly/internal/report"
	"github.com/iWorld-y/sre_weekly/internal/section"
)

// RecordSink 记录存储，由 notion.Client 实现
type RecordSink interface {
	CreatePage(ctx context.Context, databaseID string, fields []model.Field, rec model.Record) error
}

// Notifier 邮件通知，由 mail.Client 实现
type Notifier interface {
	Send(subject, htmlBody string)
	Alert(subject, body string)
}

// Archiver 运行归档，由 storage.Storage 实现
type Archiver interface {
	SaveReport(runID string, r *model.Report) error
}

// Engine 编排器
type Engine struct {
	cfg      *config.Config
	gen      section.Generator
	pipeline *section.Pipeline
	records  RecordSink
	mailer   Notifier
	store    Archiver
	now      func() time.Time
}

// New 创建编排器。records、mailer、store 均可为 nil（对应能力降级）。
func New(cfg *config.Config, gen section.Generator, records RecordSink, mailer Notifier, store Archiver) *Engine {
	var alert section.AlertFunc
	if mailer != nil {
		alert = mailer.Alert
	}
	return &Engine{
		cfg:      cfg,
		gen:      gen,
		pipeline: section.NewPipeline(gen, alert),
		records:  records,
		mailer:   mailer,
		store:    store,
		now:      time.Now,
	}
}

// Run 执行一次完整的周报生成。主报告失败时整次运行终止，
// 不产出部分报告；其余栏目失败只留下空表格。
func (e *Engine) Run(ctx context.Context) (*model.Report, error) {
	runID := uuid.NewString()
	period := e.period()
	logger.Log.Infof("开始生成周报 [run=%s]，覆盖 %s 至 %s", runID, period.Start, period.End)

	specs := section.Specs()
	total := len(specs) + 1

	// Step 1: 主报告（Report Master），必须成功
	logger.Log.Infof("--- Step 1/%d: 周报主表 (Report Master) ---", total)
	meta, err := e.runMaster(ctx, period)
	if err != nil {
		logger.Log.Errorf("致命错误: 无法生成总体摘要，终止所有后续步骤: %v", err)
		return nil, fmt.Errorf("report master failed: %w", err)
	}

	rep := &model.Report{Meta: meta}
	e.persist(ctx, section.MasterKey, section.MasterFields, section.MasterRecord(meta))

	// Step 2..N: 各栏目彼此独立，失败只产出空列表
	for i, sp := range specs {
		logger.Log.Infof("--- Step %d/%d: %s ---", i+2, total, sp.Name)
		records := e.pipeline.Run(ctx, sp, period)
		for _, rec := range records {
			e.persist(ctx, sp.Key, sp.Fields, rec)
		}
		rep.Sections = append(rep.Sections, model.SectionData{
			Name:    sp.Name,
			Key:     sp.Key,
			Fields:  sp.Fields,
			Display: sp.Display,
			Records: records,
		})
	}

	// 归档失败按 sink 语义处理：记录日志后继续
	if e.store != nil {
		if err := e.store.SaveReport(runID, rep); err != nil {
			logger.Log.Errorf("归档周报失败: %v", err)
		} else {
			logger.Log.Infof("周报已归档 [run=%s]", runID)
		}
	}

	e.deliver(rep)

	logger.Log.Info("周报生成完毕")
	return rep, nil
}

// runMaster 主报告：查询 + 提取 + 归一化，任一步失败即整体失败
func (e *Engine) runMaster(ctx context.Context, p model.Period) (model.ReportMeta, error) {
	raw, err := e.gen.Generate(ctx, section.BuildMasterPrompt(p))
	if err != nil {
		return model.ReportMeta{}, err
	}

	meta, exErr := section.ParseMaster(raw, p)
	if exErr != nil {
		logger.Log.Errorf("主报告 JSON 解析失败: %v", exErr)
		logger.Log.Errorf("--- 完整原始文本 (JSON 解析失败) ---\n%s\n---------------------------------------", exErr.Raw)
		if e.mailer != nil {
			e.mailer.Alert("SRE/AI 报告生成失败 (JSON解析错误) - Report Master",
				fmt.Sprintf("AI 返回的 JSON 格式错误 (Report Master): %v\n\n请检查 AI 响应的原始文本:\n%s", exErr, exErr.Raw))
		}
		return model.ReportMeta{}, exErr
	}

	return meta, nil
}

// persist 写入记录存储。失败只记录日志并跳过，不重试。
func (e *Engine) persist(ctx context.Context, key string, fields []model.Field, rec model.Record) {
	if e.records == nil {
		return
	}
	dbID := e.cfg.Notion.Databases[key]
	if dbID == "" {
		logger.Log.Warnf("未配置栏目 [%s] 的数据库 ID，跳过写入", key)
		return
	}
	if err := e.records.CreatePage(ctx, dbID, fields, rec); err != nil {
		logger.Log.Errorf("写入 Notion 失败 [%s]: %v", key, err)
	}
}

// deliver 渲染 HTML，写本地存档并发送最终周报邮件
func (e *Engine) deliver(rep *model.Report) {
	htmlBody, err := report.Render(*rep)
	if err != nil {
		logger.Log.Errorf("渲染 HTML 失败: %v", err)
		return
	}

	if e.cfg.Report.OutputFile != "" {
		if err := report.WriteFile(e.cfg.Report.OutputFile, htmlBody); err != nil {
			logger.Log.Errorf("写入周报文件失败: %v", err)
		} else {
			logger.Log.Infof("周报文件已生成: %s", e.cfg.Report.OutputFile)
		}
	}

	if e.mailer != nil {
		e.mailer.Send("【周报】"+rep.Meta.Title, htmlBody)
	}
}

// period 报告周期：默认截止今天的最近 7 天
func (e *Engine) period() model.Period {
	end := e.now()
	start := end.AddDate(0, 0, -(e.cfg.Report.PeriodDays - 1))
	return model.Period{
		Start: start.Format(time.DateOnly),
		End:   end.Format(time.DateOnly),
	}
}

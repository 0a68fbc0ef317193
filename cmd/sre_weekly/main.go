package main

import (
	"context"
	"flag"
	"log"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/sre_weekly/internal/config"
	"github.com/iWorld-y/sre_weekly/internal/engine"
	"github.com/iWorld-y/sre_weekly/internal/gemini"
	"github.com/iWorld-y/sre_weekly/internal/logger"
	"github.com/iWorld-y/sre_weekly/internal/mail"
	"github.com/iWorld-y/sre_weekly/internal/notion"
	"github.com/iWorld-y/sre_weekly/internal/storage"
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动 SRE/AI 周报生成...")

	ctx := context.Background()

	// 3. 初始化邮件客户端（同时承担告警通道）
	mailer := mail.NewClient(cfg.Mail)

	// 4. 初始化限流器
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, cfg.Concurrency.QPS)

	// 5. 初始化 Gemini 客户端
	gen := gemini.NewClient(cfg.Gemini, limiter, mailer.Alert)

	// 6. 初始化 Notion 客户端
	records := notion.NewClient(cfg.Notion.Token)

	// 7. 初始化数据库归档（可选）
	var store engine.Archiver
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 本次运行不归档。", err)
		} else {
			defer s.Close()
			store = s
			logger.Log.Info("已成功连接到数据库")
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过归档")
	}

	// 8. 执行周报生成
	e := engine.New(cfg, gen, records, mailer, store)
	if _, err := e.Run(ctx); err != nil {
		logger.Log.Fatalf("周报生成失败: %v", err)
	}
}

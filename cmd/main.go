package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"DailyHaiku/internal/api"
	"DailyHaiku/internal/config"
	"DailyHaiku/internal/database"
	"DailyHaiku/internal/interfaces"
	"DailyHaiku/internal/mailer"
	"DailyHaiku/internal/metrics"
	"DailyHaiku/internal/repository"
	"DailyHaiku/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app 进程内的依赖集合，由命令行入口显式构造后传入各组件
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	repo     repository.HaikuRepository
	metrics  *metrics.Metrics
	daily    *service.DailyService
	history  *service.HistoryService
	digest   *service.DigestService
	importer *service.ImportService
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "dailyhaiku",
		Short:         "Daily haiku service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config/config.yaml)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(configPath, true)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database and tables if missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := newApp(configPath, true)
			return err
		},
	}

	sendEmail := &cobra.Command{
		Use:   "send-email",
		Short: "Send today's haiku digest once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(configPath, false)
			if err != nil {
				return err
			}
			res, err := a.digest.SendDaily(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.WithField("date", res.Date).WithField("haiku_id", res.HaikuID).WithField("message_id", res.MessageID).Info("send-email done")
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import haikus and keywords from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, false)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			n, err := a.importer.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d haikus\n", n)
			return nil
		},
	}

	root.AddCommand(serve, migrate, sendEmail, importCmd)
	// 不带子命令时默认启动服务
	root.RunE = serve.RunE
	return root
}

// newApp 加载配置、初始化日志与存储并组装 service
func newApp(configPath string, migrate bool) (*app, error) {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置文件失败: %w", err)
	}

	// 2. 初始化日志
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if cfg.Server.Mode == gin.DebugMode {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.Info("配置文件加载成功")

	// 3. 初始化存储
	var repo repository.HaikuRepository
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("使用内存存储，进程退出后数据丢失")
		repo = repository.NewMemoryRepository()
	case "postgres", "":
		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		// 4. 库表不存在则自动创建
		if migrate {
			if err := database.Migrate(db); err != nil {
				return nil, err
			}
			logger.Info("数据库表结构检查完成（不存在则已创建）")
		}
		repo = repository.NewHaikuRepository(db)
	default:
		return nil, fmt.Errorf("未支持的存储驱动: %s", cfg.Database.Driver)
	}

	// 5. 组装 service
	m := metrics.New()
	views := service.NewViewBuilder(repo, cfg.Haiku.AssetBaseURL)
	daily := service.NewDailyService(repo, views, cfg.Haiku.Location(), m, logger)

	var notifier interfaces.Notifier
	if cfg.Email.APIKey != "" {
		notifier = mailer.NewClient(mailer.Config{
			BaseURL: cfg.Email.BaseURL,
			APIKey:  cfg.Email.APIKey,
			Timeout: cfg.Email.Timeout,
			Proxy:   cfg.Email.Proxy,
		}, logger)
		logger.Info("邮件推送使用 Resend")
	} else {
		notifier = service.NewLogNotifier(logger)
		logger.Info("邮件推送仅记录日志（未配置 EMAIL_API_KEY）")
	}

	digest := service.NewDigestService(daily, notifier, service.DigestConfig{
		From:          cfg.Email.From,
		To:            cfg.Email.To,
		PublicBaseURL: cfg.Haiku.PublicBaseURL,
		CronSecret:    cfg.Cron.Secret,
	}, m, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		metrics:  m,
		daily:    daily,
		history:  service.NewHistoryService(repo, views, logger),
		digest:   digest,
		importer: service.NewImportService(repo, logger),
	}, nil
}

func (a *app) serve(ctx context.Context) error {
	// 配置Gin运行模式（debug/release）
	gin.SetMode(a.cfg.Server.Mode)
	a.logger.Infof("Gin运行模式: %s", a.cfg.Server.Mode)
	if a.cfg.Cron.Secret == "" {
		a.logger.Warn("未配置 CRON_SECRET，邮件推送接口将拒绝所有请求")
	}

	haiku := api.NewHaikuHandler(a.daily, a.history,
		api.NewPreviewRenderer(a.cfg.Haiku.PublicBaseURL, a.cfg.Haiku.SiteURL), a.repo, a.logger)
	email := api.NewEmailHandler(a.digest, a.logger)
	r := api.NewRouter(api.RouterConfig{
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
		Pprof:          a.cfg.Server.Pprof,
	}, haiku, email, a.metrics)

	srv := &httpServer{addr: fmt.Sprintf(":%d", a.cfg.Server.Port), handler: r, logger: a.logger}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.run(ctx)
}

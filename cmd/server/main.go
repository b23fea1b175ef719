// Package main 是应用程序的入口点。
package main

import (
	"abhishek-coaching-go/internal/chatbot"
	"abhishek-coaching-go/internal/config"
	"abhishek-coaching-go/internal/handler"
	"abhishek-coaching-go/internal/metrics"
	"abhishek-coaching-go/internal/pipeline"
	"abhishek-coaching-go/internal/repository"
	"abhishek-coaching-go/internal/service"
	"abhishek-coaching-go/pkg/database"
	"abhishek-coaching-go/pkg/es"
	"abhishek-coaching-go/pkg/kafka"
	"abhishek-coaching-go/pkg/log"
	"abhishek-coaching-go/pkg/storage"
	"abhishek-coaching-go/pkg/token"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	configPath := "./configs/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	config.Init(configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. 初始化主存储，Redis/MinIO/Elasticsearch/Kafka 均为可选
	if cfg.Database.IsSQLite() {
		database.InitSQLite(cfg.Database.SQLite.Path)
	} else {
		database.InitMySQL(cfg.Database.MySQL.DSN)
	}
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatal("数据库迁移失败", err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		go metrics.CollectDBStats(ctx, sqlDB, 15*time.Second)
	}

	var blacklist repository.TokenBlacklist
	if cfg.Database.Redis.Addr != "" {
		database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
		blacklist = repository.NewRedisTokenBlacklist(database.RDB)
	} else {
		log.Warnf("未配置 Redis，token 黑名单仅保存在进程内")
		blacklist = repository.NewMemoryTokenBlacklist()
	}

	var objectStorage service.ObjectStorage
	if cfg.MinIO.Enabled {
		if err := storage.InitMinIO(cfg.MinIO); err != nil {
			log.Fatal("MinIO 初始化失败", err)
		}
		objectStorage = storage.NewMinIOStore(cfg.MinIO)
	}

	var searcher service.AdmissionSearcher
	var processor *pipeline.Processor
	if cfg.Elasticsearch.Enabled {
		if err := es.InitES(cfg.Elasticsearch); err != nil {
			log.Fatal("es 初始化失败", err)
		}
		index := es.NewAdmissionIndex(cfg.Elasticsearch.IndexName)
		searcher = index
		processor = pipeline.NewProcessor(index)
	}

	// 4. 初始化 Repository
	admissionRepo := repository.NewAdmissionRepository(database.DB)
	courseRepo := repository.NewCourseRepository(database.DB)
	eventRepo := repository.NewEventRepository(database.DB)
	resourceRepo := repository.NewResourceRepository(database.DB)
	adminRepo := repository.NewAdminRepository(database.DB)

	// 5. 咨询事件：启用 Kafka 时异步投递，否则直接交给索引管道
	var publisher service.AdmissionEventPublisher
	switch {
	case cfg.Kafka.Enabled:
		kafka.InitProducer(cfg.Kafka)
		defer func() {
			if err := kafka.CloseProducer(); err != nil {
				log.Error("关闭 Kafka 生产者失败", err)
			}
		}()
		publisher = kafka.NewPublisher()
		if processor != nil {
			go kafka.StartConsumer(ctx, cfg.Kafka, processor)
		}
	case processor != nil:
		inline := pipeline.NewInlinePublisher(processor)
		// 停机时等待队列中的事件写完索引
		defer inline.Close()
		publisher = inline
	}

	// 6. 初始化 Service
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	admissionService := service.NewAdmissionService(admissionRepo, publisher, searcher)
	courseService := service.NewCourseService(courseRepo)
	eventService := service.NewEventService(eventRepo)
	resourceService := service.NewResourceService(resourceRepo, objectStorage, cfg.Upload)
	adminService := service.NewAdminService(service.AdminDeps{
		Admins:     adminRepo,
		Admissions: admissionRepo,
		Courses:    courseRepo,
		Events:     eventRepo,
		Resources:  resourceRepo,
		Blacklist:  blacklist,
		JWT:        jwtManager,
		SetupKey:   cfg.Admin.SetupKey,
	})
	chatService := service.NewChatService(newMatcher(ctx, cfg.Chat), time.Duration(cfg.Chat.ReplyDelayMS)*time.Millisecond)

	// 7. 默认管理员与初始数据
	if err := adminService.EnsureDefaultAdmin(ctx, cfg.Admin.DefaultUsername, cfg.Admin.DefaultPassword, cfg.Admin.DefaultEmail); err != nil {
		log.Fatal("创建默认管理员失败", err)
	}
	if cfg.Seed.Enabled {
		n, err := service.NewSeeder(courseRepo, eventRepo, resourceRepo).Run(ctx)
		if err != nil {
			log.Error("导入初始数据失败", err)
		} else {
			log.Infof("初始数据导入完成，新增 %d 条记录", n)
		}
	}

	// 8. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(handler.RouterDeps{
		Admissions:   handler.NewAdmissionHandler(admissionService),
		Courses:      handler.NewCourseHandler(courseService),
		Events:       handler.NewEventHandler(eventService),
		Resources:    handler.NewResourceHandler(resourceService, cfg.Upload.MaxSizeMB<<20),
		Admin:        handler.NewAdminHandler(adminService),
		Chat:         handler.NewChatHandler(chatService, cfg.CORS.AllowOrigins),
		JWT:          jwtManager,
		Blacklist:    blacklist,
		AllowOrigins: cfg.CORS.AllowOrigins,
		RequestLog:   true,
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 先停止后台任务（Kafka 消费者、FAQ 监听、连接池采集）
	cancel()

	timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// newMatcher 加载关键词表，配置了文件时监听其变化。
// 文件不可用时使用内置的默认表。
func newMatcher(ctx context.Context, chatCfg config.ChatConfig) *chatbot.Matcher {
	if chatCfg.FAQPath == "" {
		return chatbot.NewMatcher(nil)
	}
	table, err := chatbot.LoadTable(chatCfg.FAQPath)
	if err != nil {
		log.Warnf("加载 FAQ 文件 '%s' 失败，使用内置关键词表: %v", chatCfg.FAQPath, err)
		return chatbot.NewMatcher(nil)
	}
	matcher := chatbot.NewMatcher(table)
	log.Infof("已从 '%s' 加载 %d 条 FAQ", chatCfg.FAQPath, len(table.Entries))

	if chatCfg.WatchFAQ {
		if err := chatbot.WatchTable(ctx, chatCfg.FAQPath, matcher); err != nil {
			log.Error("FAQ 文件监听失败", err)
		}
	}
	return matcher
}

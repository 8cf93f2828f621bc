package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "wastetoworth/internal/domain/order"
	_ "wastetoworth/internal/domain/product"
	_ "wastetoworth/internal/domain/wallet"

	"wastetoworth/internal/pkg/config"
	"wastetoworth/internal/pkg/mailer"
	"wastetoworth/internal/pkg/middleware"
	"wastetoworth/internal/pkg/registry"
	"wastetoworth/internal/pkg/scheduler"
	"wastetoworth/internal/pkg/sepay"
	"wastetoworth/pkg/database"
	"wastetoworth/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	config.LoadConfig()
	logger.InitLogger(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()
	defer rdb.Close()

	gin.SetMode(config.GlobalConfig.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sched := scheduler.New()

	ctx := &registry.ModuleContext{
		DB:        db,
		Redis:     rdb,
		Router:    r,
		Mailer:    mailer.NewSMTPDispatcher(),
		Gateway:   sepay.NewClient(),
		Scheduler: sched,
	}
	if err := registry.InitModules(ctx); err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	sched.Start()

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("HTTP listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// 停掉对账循环，等当前周期收尾
	sched.Stop()
}

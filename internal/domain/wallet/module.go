package wallet

import (
	"time"
	userRepo "wastetoworth/internal/domain/user/repository"
	"wastetoworth/internal/domain/wallet/handler"
	"wastetoworth/internal/domain/wallet/repository"
	"wastetoworth/internal/domain/wallet/service"
	"wastetoworth/internal/pkg/config"
	"wastetoworth/internal/pkg/registry"
	"wastetoworth/internal/pkg/scheduler"

	"github.com/gin-gonic/gin"
)

// WalletModule 钱包模块
type WalletModule struct{}

func init() {
	registry.Register(&WalletModule{})
}

func (m *WalletModule) Name() string {
	return "wallet"
}

func (m *WalletModule) Priority() int {
	return 20
}

func (m *WalletModule) Init(ctx *registry.ModuleContext) error {
	wRepo := repository.NewWalletRepository(ctx.DB)
	uRepo := userRepo.NewUserRepository(ctx.DB)

	wService := service.NewWalletService(wRepo, uRepo, ctx.Gateway, ctx.Mailer, ctx.Redis)
	wHandler := handler.NewWalletHandler(wService)

	// 对账任务：固定间隔轮询网关，独立于请求流量
	ctx.Scheduler.Register(scheduler.Task{
		Name:     "wallet-reconcile",
		Interval: time.Duration(config.GlobalConfig.Reconciler.Interval) * time.Second,
		Run:      wService.ReconcilePending,
	})

	setupRoutes(ctx.Router, wHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.WalletHandler) {
	g := r.Group("/wallet")
	{
		g.GET("/get", h.GetWallet)
		g.POST("/handle", h.CreateDepositRequest)
		g.GET("/user/:userId", h.GetUserTransactions)
	}
}

package order

import (
	"wastetoworth/internal/domain/order/handler"
	"wastetoworth/internal/domain/order/repository"
	"wastetoworth/internal/domain/order/service"
	productRepo "wastetoworth/internal/domain/product/repository"
	userRepo "wastetoworth/internal/domain/user/repository"
	walletRepo "wastetoworth/internal/domain/wallet/repository"
	"wastetoworth/internal/pkg/middleware"
	"wastetoworth/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 订单模块依赖商品和钱包，优先级较低
	return 30
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	oRepo := repository.NewOrderRepository(ctx.DB)
	pRepo := productRepo.NewProductRepository(ctx.DB)
	wRepo := walletRepo.NewWalletRepository(ctx.DB)
	uRepo := userRepo.NewUserRepository(ctx.DB)

	oService := service.NewOrderService(oRepo, pRepo, wRepo, uRepo, ctx.Mailer)
	oHandler := handler.NewOrderHandler(oService)
	aHandler := handler.NewAdminOrderHandler(oService)

	setupRoutes(ctx.Router, oHandler, aHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler, ah *handler.AdminOrderHandler) {
	g := r.Group("/order")
	{
		// 下单允许游客，带 token 则归属到用户
		g.POST("/create", middleware.OptionalAuthMiddleware(), h.CreateOrder)
		g.GET("/get", h.GetOrders)
		g.PUT("/confirm-received/:orderId", h.ConfirmReceived)
		g.PUT("/:orderId/cancel", h.CancelOrder)
	}

	admin := r.Group("/admin/order")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/get", ah.GetOrders)
		admin.PUT("/:orderId/approve", ah.ApproveOrder)
		admin.PUT("/:orderId/assign", ah.AssignOrder)
		admin.PUT("/:orderId/cancel", ah.CancelOrder)
	}
}

package product

import (
	"wastetoworth/internal/domain/product/handler"
	"wastetoworth/internal/domain/product/repository"
	"wastetoworth/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ProductModule 商品模块（只暴露订单核心消费的只读查询）
type ProductModule struct{}

func init() {
	registry.Register(&ProductModule{})
}

func (m *ProductModule) Name() string {
	return "product"
}

func (m *ProductModule) Priority() int {
	return 10
}

func (m *ProductModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewProductRepository(ctx.DB)
	h := handler.NewProductHandler(repo)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ProductHandler) {
	g := r.Group("/product")
	{
		g.GET("/:id", h.GetProduct)
	}
}

package handler

import (
	"errors"
	"net/http"
	"wastetoworth/internal/domain/product/repository"
	"wastetoworth/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	repo repository.ProductRepository
}

func NewProductHandler(repo repository.ProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// GetProduct 查询商品
// @Summary 查询商品
// @Tags Product
// @Produce json
// @Success 200 {object} response.Response
// @Router /product/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, product)
}

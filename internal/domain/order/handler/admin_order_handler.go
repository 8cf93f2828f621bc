package handler

import (
	"net/http"
	"wastetoworth/internal/domain/order/service"
	"wastetoworth/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminOrderHandler 管理端订单操作
type AdminOrderHandler struct {
	service service.OrderService
}

func NewAdminOrderHandler(s service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{service: s}
}

// GetOrders 管理端订单列表
// @Summary 按状态查询全部订单
// @Tags AdminOrder
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Response
// @Router /admin/order/get [get]
func (h *AdminOrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.service.GetOrders(c.Query("status"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, orders)
}

// ApproveOrder 审批订单
// @Summary 审批 PENDING 订单
// @Tags AdminOrder
// @Produce json
// @Router /admin/order/{orderId}/approve [put]
func (h *AdminOrderHandler) ApproveOrder(c *gin.Context) {
	order, err := h.service.ApproveOrder(c.Param("orderId"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// AssignOrder 安排发货
// @Summary 将已审批订单转入配送
// @Tags AdminOrder
// @Produce json
// @Router /admin/order/{orderId}/assign [put]
func (h *AdminOrderHandler) AssignOrder(c *gin.Context) {
	order, err := h.service.AssignOrder(c.Param("orderId"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, order)
}

type adminCancelInput struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelOrder 管理端取消订单
// @Summary 取消订单（必须给出理由）
// @Tags AdminOrder
// @Accept json
// @Produce json
// @Router /admin/order/{orderId}/cancel [put]
func (h *AdminOrderHandler) CancelOrder(c *gin.Context) {
	var input adminCancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "reason is required")
		return
	}

	if err := h.service.CancelOrder(c.Param("orderId"), input.Reason); err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "order cancelled"})
}

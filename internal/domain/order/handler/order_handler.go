package handler

import (
	"errors"
	"net/http"
	"wastetoworth/internal/domain/order/model"
	"wastetoworth/internal/domain/order/service"
	"wastetoworth/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type createOrderInput struct {
	Items   []service.ItemInput `json:"items" binding:"required,min=1,dive"`
	Payment model.PaymentMethod `json:"payment" binding:"required,oneof=COD WALLET"`
	Address model.Address       `json:"userAddress" binding:"required"`
}

// CreateOrder 结算下单
// @Summary 创建订单（支持游客）
// @Tags Order
// @Accept json
// @Produce json
// @Param input body createOrderInput true "Order Info"
// @Success 201 {object} response.Response
// @Router /order/create [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	buyer := model.Guest()
	if userID := getUserIDFromContext(c); userID != "" {
		buyer = model.Registered(userID)
	}

	order, err := h.service.CreateOrder(buyer, input.Items, input.Payment, input.Address)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	response.Created(c, order)
}

// GetOrders 用户订单列表
// @Summary 按状态查询用户订单
// @Tags Order
// @Produce json
// @Param status query string false "Status filter"
// @Param userId query string true "User ID"
// @Success 200 {object} response.Response
// @Router /order/get [get]
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "userId is required")
		return
	}

	orders, err := h.service.GetOrdersByUser(userID, c.Query("status"), 0)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, orders)
}

// ConfirmReceived 确认收货
// @Summary 用户确认收货
// @Tags Order
// @Produce json
// @Success 200 {object} response.Response
// @Router /order/confirm-received/{orderId} [put]
func (h *OrderHandler) ConfirmReceived(c *gin.Context) {
	order, err := h.service.ConfirmReceived(c.Param("orderId"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, gin.H{"status": order.Status})
}

type cancelInput struct {
	Reason string `json:"reason"`
}

// CancelOrder 用户取消订单
// @Summary 用户取消订单
// @Tags Order
// @Accept json
// @Produce json
// @Router /order/{orderId}/cancel [put]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var input cancelInput
	_ = c.ShouldBindJSON(&input) // 用户侧理由可选

	if err := h.service.CancelOrder(c.Param("orderId"), input.Reason); err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "order cancelled"})
}

// writeOrderError 订单错误到 HTTP 的统一映射
func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		response.Error(c, http.StatusBadRequest, response.ErrProductNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		response.Error(c, http.StatusBadRequest, response.ErrInsufficientStock, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		response.Error(c, http.StatusBadRequest, response.ErrInsufficientFunds, err.Error())
	case errors.Is(err, service.ErrGuestWalletPayment):
		response.Error(c, http.StatusBadRequest, response.ErrGuestWalletPay, err.Error())
	case errors.Is(err, service.ErrWalletNotFound):
		response.Error(c, http.StatusBadRequest, response.ErrWalletNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyCancelled):
		response.Error(c, http.StatusBadRequest, response.ErrAlreadyCancelled, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidState, err.Error())
	case errors.Is(err, service.ErrEmptyOrder), errors.Is(err, service.ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

func getUserIDFromContext(c *gin.Context) string {
	val, _ := c.Get("userID")
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

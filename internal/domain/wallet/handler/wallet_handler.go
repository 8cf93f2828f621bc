package handler

import (
	"errors"
	"net/http"
	"wastetoworth/internal/domain/wallet/service"
	"wastetoworth/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(s service.WalletService) *WalletHandler {
	return &WalletHandler{service: s}
}

// GetWallet 查询钱包
// @Summary 查询钱包及流水
// @Tags Wallet
// @Produce json
// @Param userId query string true "User ID"
// @Success 200 {object} response.Response
// @Router /wallet/get [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "userId is required")
		return
	}

	wallet, err := h.service.GetWalletByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrWalletNotFound, "wallet not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, wallet)
}

type depositRequestInput struct {
	UserID          string          `json:"userId" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionCode string          `json:"transactionCode" binding:"required"`
}

// CreateDepositRequest 登记充值请求
// @Summary 登记待确认充值
// @Tags Wallet
// @Accept json
// @Produce json
// @Param input body depositRequestInput true "Deposit Request"
// @Success 200 {object} response.Response
// @Router /wallet/handle [post]
func (h *WalletHandler) CreateDepositRequest(c *gin.Context) {
	var input depositRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	err := h.service.RequestDeposit(input.UserID, input.Amount, input.TransactionCode)
	switch {
	case err == nil:
		response.Success(c, nil)
	case errors.Is(err, service.ErrWalletNotFound):
		response.Error(c, http.StatusNotFound, response.ErrWalletNotFound, "wallet not found")
	case errors.Is(err, service.ErrDuplicateDeposit):
		response.Error(c, http.StatusBadRequest, response.ErrDuplicateDeposit, err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

// GetUserTransactions 查询用户流水
// @Summary 查询用户钱包流水
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Response
// @Router /wallet/user/{userId} [get]
func (h *WalletHandler) GetUserTransactions(c *gin.Context) {
	txns, err := h.service.GetTransactions(c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrWalletNotFound, "wallet not found for this user")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, txns)
}

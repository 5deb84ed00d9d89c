package handler

import (
	"github.com/gin-gonic/gin"

	"market-core/internal/handler/request"
	"market-core/internal/handler/response"
	"market-core/internal/service"
	"market-core/pkg/errno"
)

// AccountHandler exposes the fund accounts settlement runs against.
type AccountHandler struct {
	account *service.AccountService
}

func NewAccountHandler(account *service.AccountService) *AccountHandler {
	return &AccountHandler{account: account}
}

// Deposit handles POST /accounts/deposit
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req request.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Address); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.account.Deposit(c.Request.Context(), req.Address, req.Amount); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Balance handles GET /accounts/:address/balance
func (h *AccountHandler) Balance(c *gin.Context) {
	addr := c.Param("address")
	if err := validAddr(addr); err != nil {
		response.Error(c, err)
		return
	}
	balance, err := h.account.GetBalance(c.Request.Context(), addr)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"address": addr, "balance": balance})
}

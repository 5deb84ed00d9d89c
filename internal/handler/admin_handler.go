package handler

import (
	"github.com/gin-gonic/gin"

	"market-core/internal/handler/request"
	"market-core/internal/handler/response"
	"market-core/internal/service"
	"market-core/pkg/errno"
)

// AdminHandler exposes the platform-admin surface: marketplace configuration
// and the storage ownership handshake. Authorization is enforced in the
// service layer against the deployer key, not here.
type AdminHandler struct {
	market *service.MarketService
}

func NewAdminHandler(market *service.MarketService) *AdminHandler {
	return &AdminHandler{market: market}
}

// SetFeeRate handles POST /admin/fee-rate
func (h *AdminHandler) SetFeeRate(c *gin.Context) {
	var req request.SetFeeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := h.market.AdminSetFeeRate(c.Request.Context(), req.Caller, req.Bps); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetPaused handles POST /admin/paused
func (h *AdminHandler) SetPaused(c *gin.Context) {
	var req request.SetPausedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := h.market.AdminSetPaused(c.Request.Context(), req.Caller, req.Paused); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetRoyaltiesDisabled handles POST /admin/royalties-disabled
func (h *AdminHandler) SetRoyaltiesDisabled(c *gin.Context) {
	var req request.SetRoyaltiesDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := h.market.AdminSetRoyaltiesDisabled(c.Request.Context(), req.Caller, req.Disabled); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetCreationFee handles POST /admin/creation-fee
func (h *AdminHandler) SetCreationFee(c *gin.Context) {
	var req request.SetCreationFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := h.market.AdminSetCreationFee(c.Request.Context(), req.Caller, req.Fee); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetFeeRecipient handles POST /admin/fee-recipient
func (h *AdminHandler) SetFeeRecipient(c *gin.Context) {
	var req request.SetFeeRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Recipient); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.market.AdminSetFeeRecipient(c.Request.Context(), req.Caller, req.Recipient); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetTrustedCreator handles POST /admin/trusted-creators
func (h *AdminHandler) SetTrustedCreator(c *gin.Context) {
	var req request.SetTrustedCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Creator); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.market.AdminSetTrustedCreator(c.Request.Context(), req.Caller, req.Creator, req.DiscountBps); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// WithdrawFees handles POST /admin/withdraw-fees
func (h *AdminHandler) WithdrawFees(c *gin.Context) {
	var req request.WithdrawFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	swept, err := h.market.AdminWithdrawFees(c.Request.Context(), req.Caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"amount": swept})
}

// ReleaseStorage handles POST /admin/handshake/release
func (h *AdminHandler) ReleaseStorage(c *gin.Context) {
	var req request.HandshakeReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := h.market.ReleaseStorage(c.Request.Context(), req.Caller); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// InstallLogic handles POST /admin/handshake/install
func (h *AdminHandler) InstallLogic(c *gin.Context) {
	var req request.HandshakeInstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.NewLogic); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.market.InstallLogic(c.Request.Context(), req.Caller, req.NewLogic); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

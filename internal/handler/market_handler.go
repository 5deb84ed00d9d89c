package handler

import (
	"github.com/gin-gonic/gin"

	"market-core/internal/handler/request"
	"market-core/internal/handler/response"
	"market-core/internal/service"
	"market-core/pkg/errno"
)

// MarketHandler exposes the marketplace trading surface.
type MarketHandler struct {
	market  *service.MarketService
	storage *service.StorageService
	query   *service.QueryService
}

func NewMarketHandler(market *service.MarketService, storage *service.StorageService, query *service.QueryService) *MarketHandler {
	return &MarketHandler{market: market, storage: storage, query: query}
}

// CreateListing handles POST /listings
func (h *MarketHandler) CreateListing(c *gin.Context) {
	var req request.ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Seller, req.Collection); err != nil {
		response.Error(c, err)
		return
	}
	if req.AllowedBuyer != "" {
		if err := validAddr(req.AllowedBuyer); err != nil {
			response.Error(c, err)
			return
		}
	}

	listing, err := h.market.List(c.Request.Context(), req.Seller, req.Collection, req.TokenID, req.Price, req.Quantity, req.AllowedBuyer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, listing)
}

// Buy handles POST /listings/:key/buy
func (h *MarketHandler) Buy(c *gin.Context) {
	var req request.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Buyer); err != nil {
		response.Error(c, err)
		return
	}

	settled, err := h.market.Buy(c.Request.Context(), req.Buyer, c.Param("key"), req.Quantity, req.Payment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settled)
}

// Cancel handles POST /listings/:key/cancel
func (h *MarketHandler) Cancel(c *gin.Context) {
	var req request.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Caller); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.market.Cancel(c.Request.Context(), req.Caller, c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateListing handles PATCH /listings/:key
func (h *MarketHandler) UpdateListing(c *gin.Context) {
	var req request.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Caller); err != nil {
		response.Error(c, err)
		return
	}

	err := h.market.UpdateListingQuantityAndPrice(c.Request.Context(), req.Caller, c.Param("key"), req.Price, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetListing handles GET /listings/:key
func (h *MarketHandler) GetListing(c *gin.Context) {
	listing, err := h.query.GetListing(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, listing)
}

// GetListings handles GET /collections/:address/listings?status=active
func (h *MarketHandler) GetListings(c *gin.Context) {
	listings, err := h.query.GetListings(c.Request.Context(), c.Param("address"), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, listings)
}

// Floor handles GET /collections/:address/floor
func (h *MarketHandler) Floor(c *gin.Context) {
	listing, err := h.query.FloorListing(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, listing)
}

// State handles GET /market/state
func (h *MarketHandler) State(c *gin.Context) {
	state, err := h.storage.State(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"owner":              state.Owner,
		"fee_recipient":      state.FeeRecipient,
		"fee_rate_bps":       state.FeeRateBps,
		"accrued_fees":       state.AccruedFees,
		"paused":             state.Paused,
		"royalties_disabled": state.RoyaltiesDisabled,
		"creation_fee":       state.CreationFee,
		"logic_address":      h.market.LogicAddress(),
	})
}

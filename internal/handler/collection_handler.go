package handler

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"market-core/internal/handler/request"
	"market-core/internal/handler/response"
	"market-core/internal/service"
	"market-core/pkg/errno"
)

// validAddr rejects anything that is not a 0x-prefixed 20-byte hex address.
func validAddr(addrs ...string) error {
	for _, a := range addrs {
		if !common.IsHexAddress(a) {
			return errno.ErrInvalidAddress
		}
	}
	return nil
}

// CollectionHandler exposes the factory and both issuance models.
type CollectionHandler struct {
	factory    *service.FactoryService
	collection *service.CollectionService
	character  *service.CharacterService
	market     *service.MarketService
	query      *service.QueryService
}

func NewCollectionHandler(factory *service.FactoryService, collection *service.CollectionService, character *service.CharacterService, market *service.MarketService, query *service.QueryService) *CollectionHandler {
	return &CollectionHandler{factory: factory, collection: collection, character: character, market: market, query: query}
}

// Create handles POST /collections
func (h *CollectionHandler) Create(c *gin.Context) {
	var req request.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Creator); err != nil {
		response.Error(c, err)
		return
	}

	col, err := h.factory.CreateCollection(c.Request.Context(), req.Creator, req.Payment, service.CreateCollectionParams{
		Name:             req.Name,
		Symbol:           req.Symbol,
		Model:            req.Model,
		BaseURI:          req.BaseURI,
		PlaceholderURI:   req.PlaceholderURI,
		MintPrice:        req.MintPrice,
		TierPrices:       req.TierPrices,
		SupplyCeiling:    req.SupplyCeiling,
		PerWalletCeiling: req.PerWalletCeiling,
		PerTxCeiling:     req.PerTxCeiling,
		RoyaltyBps:       req.RoyaltyBps,
		MintingEnabled:   req.MintingEnabled,
		Revealed:         req.Revealed,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, col)
}

// Get handles GET /collections/:address
func (h *CollectionHandler) Get(c *gin.Context) {
	col, err := h.factory.GetCollection(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, col)
}

// List handles GET /collections
func (h *CollectionHandler) List(c *gin.Context) {
	cols, err := h.query.GetCollections(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cols)
}

// Mint handles POST /collections/:address/mint (sequential model)
func (h *CollectionHandler) Mint(c *gin.Context) {
	var req request.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.To); err != nil {
		response.Error(c, err)
		return
	}

	tokenID, err := h.collection.Mint(c.Request.Context(), c.Param("address"), req.To, req.Payment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"token_id": tokenID})
}

// MintWeighted handles POST /collections/:address/mint-weighted
func (h *CollectionHandler) MintWeighted(c *gin.Context) {
	var req request.MintWeightedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.To); err != nil {
		response.Error(c, err)
		return
	}

	units, err := h.character.MintWeighted(c.Request.Context(), c.Param("address"), req.To, req.Tier, req.Quantity, req.Payment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"token_ids": units})
}

// AddCharacter handles POST /collections/:address/characters
func (h *CollectionHandler) AddCharacter(c *gin.Context) {
	var req request.AddCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Caller); err != nil {
		response.Error(c, err)
		return
	}

	err := h.character.AddCharacter(c.Request.Context(), c.Param("address"), req.Caller, req.CharacterID, req.Name, req.MaxPerTier)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Update handles PATCH /collections/:address
func (h *CollectionHandler) Update(c *gin.Context) {
	var req request.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Caller); err != nil {
		response.Error(c, err)
		return
	}

	err := h.collection.Update(c.Request.Context(), c.Param("address"), req.Caller, service.CollectionUpdate{
		MintPrice:      req.MintPrice,
		MintingEnabled: req.MintingEnabled,
		Revealed:       req.Revealed,
		BaseURI:        req.BaseURI,
		PlaceholderURI: req.PlaceholderURI,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Withdraw handles POST /collections/:address/withdraw
func (h *CollectionHandler) Withdraw(c *gin.Context) {
	var req request.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Caller); err != nil {
		response.Error(c, err)
		return
	}

	swept, err := h.collection.Withdraw(c.Request.Context(), c.Param("address"), req.Caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"amount": swept})
}

// SetApproval handles POST /collections/:address/approvals
// The operator is always the marketplace logic address; sellers approve it
// before listing.
func (h *CollectionHandler) SetApproval(c *gin.Context) {
	var req request.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := validAddr(req.Owner); err != nil {
		response.Error(c, err)
		return
	}

	err := h.collection.SetApprovalForAll(c.Request.Context(), req.Owner, c.Param("address"), h.market.LogicAddress(), req.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// TokenURI handles GET /collections/:address/tokens/:id/uri
func (h *CollectionHandler) TokenURI(c *gin.Context) {
	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	uri, err := h.collection.TokenURI(c.Request.Context(), c.Param("address"), tokenID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"uri": uri})
}

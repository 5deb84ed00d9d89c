package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"market-core/internal/handler"
	"market-core/pkg/monitor"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Collection *handler.CollectionHandler
	Market     *handler.MarketHandler
	Account    *handler.AccountHandler
	Admin      *handler.AdminHandler
}

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(h Handlers) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		collections := api.Group("/collections")
		{
			collections.POST("", h.Collection.Create)
			collections.GET("", h.Collection.List)
			collections.GET("/:address", h.Collection.Get)
			collections.PATCH("/:address", h.Collection.Update)
			collections.POST("/:address/mint", h.Collection.Mint)
			collections.POST("/:address/mint-weighted", h.Collection.MintWeighted)
			collections.POST("/:address/characters", h.Collection.AddCharacter)
			collections.POST("/:address/withdraw", h.Collection.Withdraw)
			collections.POST("/:address/approvals", h.Collection.SetApproval)
			collections.GET("/:address/tokens/:id/uri", h.Collection.TokenURI)
			collections.GET("/:address/listings", h.Market.GetListings)
			collections.GET("/:address/floor", h.Market.Floor)
		}

		listings := api.Group("/listings")
		{
			listings.POST("", h.Market.CreateListing)
			listings.GET("/:key", h.Market.GetListing)
			listings.PATCH("/:key", h.Market.UpdateListing)
			listings.POST("/:key/buy", h.Market.Buy)
			listings.POST("/:key/cancel", h.Market.Cancel)
		}

		accounts := api.Group("/accounts")
		{
			accounts.POST("/deposit", h.Account.Deposit)
			accounts.GET("/:address/balance", h.Account.Balance)
		}

		api.GET("/market/state", h.Market.State)

		admin := api.Group("/admin")
		{
			admin.POST("/fee-rate", h.Admin.SetFeeRate)
			admin.POST("/paused", h.Admin.SetPaused)
			admin.POST("/royalties-disabled", h.Admin.SetRoyaltiesDisabled)
			admin.POST("/creation-fee", h.Admin.SetCreationFee)
			admin.POST("/fee-recipient", h.Admin.SetFeeRecipient)
			admin.POST("/trusted-creators", h.Admin.SetTrustedCreator)
			admin.POST("/withdraw-fees", h.Admin.WithdrawFees)
			admin.POST("/handshake/release", h.Admin.ReleaseStorage)
			admin.POST("/handshake/install", h.Admin.InstallLogic)
		}
	}

	return r
}

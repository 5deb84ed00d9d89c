package main

import (
	"context"
	"fmt"

	"market-core/internal/handler"
	"market-core/internal/model"
	"market-core/internal/server"
	"market-core/internal/service"
	"market-core/internal/service/mq"

	"market-core/pkg/cache"
	"market-core/pkg/config"
	"market-core/pkg/database"
	"market-core/pkg/entropy"
	"market-core/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. 构造 DSN
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)

	// 3. 连接数据库
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 4. 连接 Redis
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 5. 执行数据库迁移 (Auto Migrate) - 仅开发环境
	if config.Global.App.Env == "development" {
		logger.Info("开发环境: 尝试自动迁移 Schema (GORM AutoMigrate)...")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("数据库自动迁移失败", zap.Error(err))
		}
		logger.Info("数据库自动迁移完成 (Dev Mode)")
	} else {
		logger.Info("生产环境: 跳过 AutoMigrate，请使用 migrate 工具管理 Schema")
	}

	// 6. Bootstrap marketplace storage (idempotent; writes the single
	// market_state row on first start).
	creationFee, err := decimal.NewFromString(config.Global.Market.CreationFee)
	if err != nil {
		logger.Fatal("invalid market.creation_fee", zap.Error(err))
	}
	storageService := service.NewStorageService(db)
	if err := storageService.Bootstrap(
		context.Background(),
		config.Global.Market.LogicAddress,
		config.Global.Market.DeployerAddress,
		creationFee,
		config.Global.Market.FeeRateBps,
	); err != nil {
		logger.Fatal("storage bootstrap failed", zap.Error(err))
	}

	// 7. 初始化业务服务
	accountService := service.NewAccountService(db)
	factoryService := service.NewFactoryService(db, storageService)
	collectionService := service.NewCollectionService(db)
	characterService := service.NewCharacterService(db, entropy.CryptoSource{})
	marketService := service.NewMarketService(db, storageService,
		config.Global.Market.LogicAddress,
		config.Global.Market.DeployerAddress,
	)

	// 8. 读路径走多级缓存 (L1 内存 / L2 Redis)
	queryCache := cache.NewMultiLevelCache(cache.NewMemoryCache(), cache.NewRedisCache(rdb))
	queryService := service.NewQueryService(db, queryCache)

	// 9. 启动消息中继服务 (Transactional Outbox -> Kafka)
	producer := mq.NewKafkaProducer(config.Global.Kafka.Brokers)
	relayService := service.NewRelayService(db, producer)
	relayCtx, relayCancel := context.WithCancel(context.Background())
	go relayService.Start(relayCtx)

	// 10. HTTP Router
	r := server.NewHTTPRouter(server.Handlers{
		Collection: handler.NewCollectionHandler(factoryService, collectionService, characterService, marketService, queryService),
		Market:     handler.NewMarketHandler(marketService, storageService, queryService),
		Account:    handler.NewAccountHandler(accountService),
		Admin:      handler.NewAdminHandler(marketService),
	})

	// 11. 运行 (阻塞)
	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.Run()

	// 12. 退出后资源清理
	relayCancel()
	producer.Close()
	logger.Info("正在关闭数据库连接...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("系统已退出")
}

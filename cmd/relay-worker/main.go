package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"market-core/internal/service"
	"market-core/internal/service/mq"
	"market-core/pkg/config"
	"market-core/pkg/database"
	"market-core/pkg/logger"

	"go.uber.org/zap"
)

// Standalone outbox relay. The API server runs one in-process; this binary
// exists for deployments that scale the HTTP tier to many replicas and want a
// single relay instead of N competing pollers.
func main() {
	config.Init()
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	producer := mq.NewKafkaProducer(config.Global.Kafka.Brokers)
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	service.NewRelayService(db, producer).Start(ctx)
}

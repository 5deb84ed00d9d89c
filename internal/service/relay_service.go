package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"market-core/internal/model"
	"market-core/internal/service/mq"
	"market-core/pkg/logger"
)

// RelayService 负责将本地消息表的消息搬运到 MQ (Transactional Outbox)
// Delivery is at-least-once: a message is only flipped to SENT after the
// producer acks, so consumers must be idempotent.
type RelayService struct {
	db       *gorm.DB
	producer mq.Producer
	interval time.Duration
}

func NewRelayService(db *gorm.DB, producer mq.Producer) *RelayService {
	return &RelayService{
		db:       db,
		producer: producer,
		interval: 500 * time.Millisecond, // 500ms 轮询一次
	}
}

func (s *RelayService) Start(ctx context.Context) {
	logger.Info("outbox relay started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *RelayService) processPendingMessages(ctx context.Context) {
	// 每次取 50 条，避免内存爆炸
	var messages []model.OutboxMessage
	if err := s.db.Where("status = ?", "PENDING").Order("id ASC").Limit(50).Find(&messages).Error; err != nil {
		logger.Error("outbox query failed", zap.Error(err))
		return
	}

	for _, msg := range messages {
		if err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			logger.Error("outbox publish failed", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}

		// 只有发送成功了才更新状态 => At-least-once (至少一次投递)
		if err := s.db.Model(&msg).Update("status", "SENT").Error; err != nil {
			logger.Error("outbox status update failed", zap.Uint64("id", msg.ID), zap.Error(err))
		}
	}
}

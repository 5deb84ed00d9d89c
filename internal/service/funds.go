package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-core/internal/model"
	"market-core/pkg/errno"
)

// lockAccount 悲观锁读取资金账户，不存在则创建零余额账户
func lockAccount(tx *gorm.DB, address string) (*model.Account, error) {
	var acc model.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acc = model.Account{Address: address, Balance: decimal.Zero}
		if err := tx.Create(&acc).Error; err != nil {
			return nil, err
		}
		return &acc, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// debit 在当前事务内扣减账户余额。余额不足 => InsufficientPayment，整个事务回滚。
// This is the "attached payment" of a transition: the exact amount due is
// taken, so any overpayment the caller offered simply never leaves them.
func debit(tx *gorm.DB, address string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errno.InternalServerError
	}
	acc, err := lockAccount(tx, address)
	if err != nil {
		return err
	}
	if acc.Balance.LessThan(amount) {
		return errno.ErrInsufficientPayment
	}
	acc.Balance = acc.Balance.Sub(amount)
	return tx.Save(acc).Error
}

// credit 在当前事务内增加账户余额
// A negative amount aborts the transaction: a credit must never act as a
// hidden debit.
func credit(tx *gorm.DB, address string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errno.InternalServerError
	}
	if amount.IsZero() {
		return nil
	}
	acc, err := lockAccount(tx, address)
	if err != nil {
		return err
	}
	acc.Balance = acc.Balance.Add(amount)
	return tx.Save(acc).Error
}

// appendOutbox 在同一事务内写入本地消息表，由 Relay 服务搬运到 Kafka。
// The state change and its event therefore commit or roll back together.
func appendOutbox(tx *gorm.DB, topic, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&model.OutboxMessage{
		Topic:     topic,
		Key:       key,
		Payload:   body,
		Status:    "PENDING",
		CreatedAt: time.Now(),
	}).Error
}

package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"market-core/internal/model"
	"market-core/pkg/errno"
)

// AccountService manages the fund accounts transitions settle against.
// Inbound funding (the external "attach payment" step) is modeled as an
// explicit deposit; every other balance movement happens inside a
// settlement transaction.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Deposit credits an account. amount must be positive.
func (s *AccountService) Deposit(ctx context.Context, address string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errno.ErrInvalidPrice
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return credit(tx, address, amount)
	})
}

// GetBalance returns the current balance, zero for unknown accounts.
func (s *AccountService) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var acc model.Account
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

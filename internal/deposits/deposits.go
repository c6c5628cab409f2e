package deposits

import (
	"context"
	"errors"
	"fmt"
	"sync"

	model "auction-engine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StaticBalances is an in-memory deposit lookup. Unknown users hold nothing.
type StaticBalances struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// NewStaticBalances creates a lookup seeded with balances
func NewStaticBalances(balances map[string]decimal.Decimal) *StaticBalances {
	s := &StaticBalances{balances: make(map[string]decimal.Decimal, len(balances))}
	for userID, b := range balances {
		s.balances[userID] = b
	}
	return s
}

// Set replaces a user's balance
func (s *StaticBalances) Set(userID string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] = balance
}

func (s *StaticBalances) DepositBalance(_ context.Context, userID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[userID], nil
}

// GormBalances reads the deposit_accounts table of the account subsystem
type GormBalances struct {
	db *gorm.DB
}

// NewGormBalances creates a read-only lookup over db
func NewGormBalances(db *gorm.DB) *GormBalances {
	return &GormBalances{db: db}
}

func (g *GormBalances) DepositBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var account model.DepositAccount
	err := g.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("deposits: balance of user %s: %w", userID, err)
	}
	return account.Balance, nil
}

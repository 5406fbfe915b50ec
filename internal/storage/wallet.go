package storage

import (
	"context"
	"errors"
	"log"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProfile returns a profile by ID, or nil when it does not exist.
func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile creates or updates a profile row.
func (s *Service) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return s.DB.WithContext(ctx).Save(profile).Error
}

// TransferCoins moves amount coins from one profile to another and records
// the tip message plus the ledger entry, all in one database transaction.
// Both balance rows are locked for the duration; the balance check against
// the locked row is the authoritative one. Returns ErrInsufficientFunds when
// the sender cannot cover the amount.
func (s *Service) TransferCoins(ctx context.Context, fromID, toID string, amount int64, msg *models.Message, txn *models.Transaction) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sender models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sender, "id = ?", fromID).Error; err != nil {
			return err
		}
		if sender.CoinBalance < amount {
			return ErrInsufficientFunds
		}

		var recipient models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&recipient, "id = ?", toID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Profile{}).Where("id = ?", fromID).
			UpdateColumn("coin_balance", gorm.Expr("coin_balance - ?", amount)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Profile{}).Where("id = ?", toID).
			UpdateColumn("coin_balance", gorm.Expr("coin_balance + ?", amount)).Error; err != nil {
			return err
		}

		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Create(txn).Error
	})
}

// AdjustBalance applies a system credit (positive delta) or debit (negative
// delta) to one profile and records the ledger entry in the same transaction.
func (s *Service) AdjustBalance(ctx context.Context, userID string, delta int64, txn *models.Transaction) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&profile, "id = ?", userID).Error; err != nil {
			return err
		}
		if profile.CoinBalance+delta < 0 {
			return ErrInsufficientFunds
		}

		if err := tx.Model(&models.Profile{}).Where("id = ?", userID).
			UpdateColumn("coin_balance", gorm.Expr("coin_balance + ?", delta)).Error; err != nil {
			return err
		}
		return tx.Create(txn).Error
	})
}

// ListTransactions returns a user's ledger entries, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := s.DB.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		log.Printf("ERROR: Failed to list transactions for user %s: %v", userID, err)
		return nil, err
	}
	return rows, nil
}

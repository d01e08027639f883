package persistent

import (
	"context"

	"fanhouse/internal/entity"
	"fanhouse/internal/model"

	"gorm.io/gorm"
)

const (
	DefaultLedgerLimit = 100
	MaxLedgerLimit     = 1000
)

// LedgerRepository only reads. Rows are appended inside the unlock and
// subscription transactions, and the model hooks reject updates and deletes.
type LedgerRepository interface {
	List(ctx context.Context, filter entity.LedgerFilter) ([]*entity.LedgerEntry, error)
	HasExternalID(ctx context.Context, externalID string) (bool, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) List(ctx context.Context, filter entity.LedgerFilter) ([]*entity.LedgerEntry, error) {
	q := r.db.WithContext(ctx).Table("ledger").
		Select("ledger.*, fan.email AS fan_email, fan.username AS fan_username, cu.email AS creator_email, cu.username AS creator_username").
		Joins("LEFT JOIN users fan ON fan.id = ledger.fan_id").
		Joins("LEFT JOIN creators c ON c.id = ledger.creator_id").
		Joins("LEFT JOIN users cu ON cu.id = c.user_id")

	if filter.FanID != "" {
		q = q.Where("ledger.fan_id = ?", filter.FanID)
	}
	if filter.CreatorID != "" {
		q = q.Where("ledger.creator_id = ?", filter.CreatorID)
	}
	if filter.TransactionType != "" {
		q = q.Where("ledger.transaction_type = ?", string(filter.TransactionType))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLedgerLimit
	}
	if limit > MaxLedgerLimit {
		limit = MaxLedgerLimit
	}

	var rows []model.LedgerRow
	if err := q.Order("ledger.created_at DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]*entity.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = ledgerRowToEntity(&rows[i])
	}
	return entries, nil
}

func (r *ledgerRepository) HasExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LedgerModel{}).
		Where("external_transaction_id = ?", externalID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

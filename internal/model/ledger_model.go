package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LedgerModel struct {
	ID                    string            `gorm:"type:uuid;primary_key"`
	TransactionType       string            `gorm:"type:varchar(50);not null"`
	FanID                 *string           `gorm:"type:uuid"`
	CreatorID             *string           `gorm:"type:uuid"`
	PostID                *string           `gorm:"type:uuid"`
	Amount                decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	Currency              string            `gorm:"type:varchar(3);default:'USD'"`
	Status                string            `gorm:"type:varchar(20);default:'completed'"`
	ExternalTransactionID string            `gorm:"column:external_transaction_id;type:varchar(255)"`
	Metadata              datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt             time.Time
}

func (LedgerModel) TableName() string {
	return "ledger"
}

func (l *LedgerModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate keeps the ledger append-only.
func (l *LedgerModel) BeforeUpdate(tx *gorm.DB) error {
	return ErrLedgerImmutable
}

// BeforeDelete keeps the ledger append-only.
func (l *LedgerModel) BeforeDelete(tx *gorm.DB) error {
	return ErrLedgerImmutable
}

type LedgerRow struct {
	LedgerModel
	FanEmail        *string
	FanUsername     *string
	CreatorEmail    *string
	CreatorUsername *string
}

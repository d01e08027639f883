package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID               string    `gorm:"type:uuid;primary_key"`
	Email            string    `gorm:"uniqueIndex;not null"`
	PasswordHash     string    `gorm:"column:password_hash;not null"`
	Role             string    `gorm:"type:varchar(20);default:'fan'"`
	Username         *string   `gorm:"uniqueIndex"`
	StripeCustomerID *string   `gorm:"column:stripe_customer_id"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

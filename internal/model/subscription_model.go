package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionModel struct {
	ID        string     `gorm:"type:uuid;primary_key"`
	FanID     string     `gorm:"type:uuid;not null;index"`
	CreatorID string     `gorm:"type:uuid;not null;index"`
	Status    string     `gorm:"type:varchar(20);default:'active'"`
	StartedAt time.Time
	ExpiresAt *time.Time
	CreatedAt time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

type SubscriptionRow struct {
	SubscriptionModel
	DisplayName     *string
	CreatorUsername *string
}

type PPVUnlockModel struct {
	ID         string `gorm:"type:uuid;primary_key"`
	FanID      string `gorm:"type:uuid;not null;uniqueIndex:idx_ppv_unlocks_fan_post"`
	PostID     string `gorm:"type:uuid;not null;uniqueIndex:idx_ppv_unlocks_fan_post"`
	UnlockedAt time.Time
	CreatedAt  time.Time
}

func (PPVUnlockModel) TableName() string {
	return "ppv_unlocks"
}

func (u *PPVUnlockModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

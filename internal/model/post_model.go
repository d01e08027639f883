package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostModel struct {
	ID         string              `gorm:"type:uuid;primary_key"`
	CreatorID  string              `gorm:"type:uuid;not null;index"`
	Title      *string             `gorm:"type:varchar(255)"`
	Content    *string             `gorm:"type:text"`
	MediaURL   *string             `gorm:"type:varchar(500)"`
	MediaType  *string             `gorm:"type:varchar(50)"`
	AccessType string              `gorm:"type:varchar(20);not null"`
	PPVPrice   decimal.NullDecimal `gorm:"column:ppv_price;type:decimal(10,2)"`
	IsActive   bool                `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PostRow is a post joined with the creator's user id and username.
type PostRow struct {
	PostModel
	CreatorUserID   string
	CreatorUsername *string
}

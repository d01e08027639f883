package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatorModel struct {
	ID                 string  `gorm:"type:uuid;primary_key"`
	UserID             string  `gorm:"type:uuid;not null;index"`
	VerificationStatus string  `gorm:"type:varchar(20);default:'pending'"`
	PersonaInquiryID   *string `gorm:"column:persona_inquiry_id"`
	Bio                *string
	DisplayName        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (CreatorModel) TableName() string {
	return "creators"
}

func (c *CreatorModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// CreatorRow is a creator joined with its owning user.
type CreatorRow struct {
	CreatorModel
	Email    string
	Username *string
}

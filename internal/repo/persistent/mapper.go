package persistent

import (
	"fanhouse/internal/entity"
	"fanhouse/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	u := &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         entity.UserRole(m.Role),
		Username:     m.Username,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.StripeCustomerID != nil {
		u.StripeCustomerID = *m.StripeCustomerID
	}
	return u
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	m := &model.UserModel{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         string(e.Role),
		Username:     e.Username,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.StripeCustomerID != "" {
		m.StripeCustomerID = &e.StripeCustomerID
	}
	return m
}

func ToCreatorEntity(m *model.CreatorModel) *entity.Creator {
	if m == nil {
		return nil
	}

	return &entity.Creator{
		ID:                 m.ID,
		UserID:             m.UserID,
		VerificationStatus: entity.VerificationStatus(m.VerificationStatus),
		PersonaInquiryID:   m.PersonaInquiryID,
		Bio:                m.Bio,
		DisplayName:        m.DisplayName,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func ToCreatorModel(e *entity.Creator) *model.CreatorModel {
	if e == nil {
		return nil
	}

	return &model.CreatorModel{
		ID:                 e.ID,
		UserID:             e.UserID,
		VerificationStatus: string(e.VerificationStatus),
		PersonaInquiryID:   e.PersonaInquiryID,
		Bio:                e.Bio,
		DisplayName:        e.DisplayName,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func creatorRowToEntity(r *model.CreatorRow) *entity.Creator {
	c := ToCreatorEntity(&r.CreatorModel)
	c.Email = r.Email
	c.Username = r.Username
	return c
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	p := &entity.Post{
		ID:         m.ID,
		CreatorID:  m.CreatorID,
		Title:      m.Title,
		Content:    m.Content,
		MediaURL:   m.MediaURL,
		MediaType:  m.MediaType,
		AccessType: entity.AccessType(m.AccessType),
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.PPVPrice.Valid {
		price := m.PPVPrice.Decimal
		p.PPVPrice = &price
	}
	return p
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	m := &model.PostModel{
		ID:         e.ID,
		CreatorID:  e.CreatorID,
		Title:      e.Title,
		Content:    e.Content,
		MediaURL:   e.MediaURL,
		MediaType:  e.MediaType,
		AccessType: string(e.AccessType),
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.PPVPrice != nil {
		m.PPVPrice = decimal.NullDecimal{Decimal: *e.PPVPrice, Valid: true}
	}
	return m
}

func postRowToEntity(r *model.PostRow) *entity.Post {
	p := ToPostEntity(&r.PostModel)
	p.CreatorUserID = r.CreatorUserID
	p.CreatorUsername = r.CreatorUsername
	return p
}

func ToSubscriptionEntity(m *model.SubscriptionModel) *entity.Subscription {
	if m == nil {
		return nil
	}

	return &entity.Subscription{
		ID:        m.ID,
		FanID:     m.FanID,
		CreatorID: m.CreatorID,
		Status:    entity.SubscriptionStatus(m.Status),
		StartedAt: m.StartedAt,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

func subscriptionRowToEntity(r *model.SubscriptionRow) *entity.Subscription {
	s := ToSubscriptionEntity(&r.SubscriptionModel)
	s.DisplayName = r.DisplayName
	s.CreatorUsername = r.CreatorUsername
	return s
}

func ToPPVUnlockEntity(m *model.PPVUnlockModel) *entity.PPVUnlock {
	if m == nil {
		return nil
	}

	return &entity.PPVUnlock{
		ID:         m.ID,
		FanID:      m.FanID,
		PostID:     m.PostID,
		UnlockedAt: m.UnlockedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func ToLedgerEntity(m *model.LedgerModel) *entity.LedgerEntry {
	if m == nil {
		return nil
	}

	return &entity.LedgerEntry{
		ID:                    m.ID,
		TransactionType:       entity.TransactionType(m.TransactionType),
		FanID:                 m.FanID,
		CreatorID:             m.CreatorID,
		PostID:                m.PostID,
		Amount:                m.Amount,
		Currency:              m.Currency,
		Status:                m.Status,
		ExternalTransactionID: m.ExternalTransactionID,
		Metadata:              map[string]interface{}(m.Metadata),
		CreatedAt:             m.CreatedAt,
	}
}

func ToLedgerModel(e *entity.LedgerEntry) *model.LedgerModel {
	if e == nil {
		return nil
	}

	m := &model.LedgerModel{
		ID:                    e.ID,
		TransactionType:       string(e.TransactionType),
		FanID:                 e.FanID,
		CreatorID:             e.CreatorID,
		PostID:                e.PostID,
		Amount:                e.Amount,
		Currency:              e.Currency,
		Status:                e.Status,
		ExternalTransactionID: e.ExternalTransactionID,
		Metadata:              datatypes.JSONMap(e.Metadata),
		CreatedAt:             e.CreatedAt,
	}
	if m.Currency == "" {
		m.Currency = entity.DefaultCurrency
	}
	if m.Status == "" {
		m.Status = entity.LedgerCompleted
	}
	return m
}

func ledgerRowToEntity(r *model.LedgerRow) *entity.LedgerEntry {
	l := ToLedgerEntity(&r.LedgerModel)
	l.FanEmail = r.FanEmail
	l.FanUsername = r.FanUsername
	l.CreatorEmail = r.CreatorEmail
	l.CreatorUsername = r.CreatorUsername
	return l
}

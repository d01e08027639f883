// Package verification opens identity verification inquiries for creator
// applicants and reports their status.
package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"fanhouse/pkg/config"
)

const StatusPending = "pending"

type Inquiry struct {
	ID     string
	Status string
}

type Provider interface {
	CreateInquiry(ctx context.Context, userID, email string) (*Inquiry, error)
	GetInquiry(ctx context.Context, inquiryID string) (*Inquiry, error)
}

func New(cfg *config.Config) Provider {
	if cfg.PersonaAPIKey == "" {
		return NewMockProvider()
	}
	return NewPersonaClient(cfg.PersonaBaseURL, cfg.PersonaAPIKey, cfg.PersonaTemplateID)
}

type PersonaClient struct {
	baseURL    string
	apiKey     string
	templateID string
	httpClient *http.Client
}

func NewPersonaClient(baseURL, apiKey, templateID string) *PersonaClient {
	return &PersonaClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		templateID: templateID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type inquiryRequest struct {
	Data struct {
		Attributes struct {
			InquiryTemplateID string `json:"inquiry-template-id,omitempty"`
			ReferenceID       string `json:"reference-id"`
			EmailAddress      string `json:"email-address,omitempty"`
		} `json:"attributes"`
	} `json:"data"`
}

type inquiryResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status string `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

func (c *PersonaClient) CreateInquiry(ctx context.Context, userID, email string) (*Inquiry, error) {
	var body inquiryRequest
	body.Data.Attributes.InquiryTemplateID = c.templateID
	body.Data.Attributes.ReferenceID = userID
	body.Data.Attributes.EmailAddress = email

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/inquiries", payload)
}

func (c *PersonaClient) GetInquiry(ctx context.Context, inquiryID string) (*Inquiry, error) {
	return c.do(ctx, http.MethodGet, "/inquiries/"+inquiryID, nil)
}

func (c *PersonaClient) do(ctx context.Context, method, path string, payload []byte) (*Inquiry, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("persona request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("persona returned status %d", resp.StatusCode)
	}

	var out inquiryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode persona response: %w", err)
	}
	return &Inquiry{ID: out.Data.ID, Status: out.Data.Attributes.Status}, nil
}

// MockProvider issues local inquiry ids that stay pending until an admin
// decides the application.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) CreateInquiry(ctx context.Context, userID, email string) (*Inquiry, error) {
	return &Inquiry{
		ID:     fmt.Sprintf("inq_%d_%09d", time.Now().UnixMilli(), rand.Intn(1000000000)),
		Status: StatusPending,
	}, nil
}

func (p *MockProvider) GetInquiry(ctx context.Context, inquiryID string) (*Inquiry, error) {
	return &Inquiry{ID: inquiryID, Status: StatusPending}, nil
}

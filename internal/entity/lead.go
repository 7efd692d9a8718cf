package entity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLeadAlreadyExists = errors.New("lead email already registered")

// Lead is one attempted sign-up captured from the landing page.
type Lead struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewLead expects email, source and metadata already normalized by the validator.
func NewLead(email, source string, metadata json.RawMessage) *Lead {
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}
	return &Lead{
		ID:        uuid.New().String(),
		Email:     email,
		Source:    source,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}

// LeadCapturedEvent is published once a lead row is committed.
type LeadCapturedEvent struct {
	EventID    string    `json:"event_id"`
	Version    int       `json:"version"`
	LeadID     string    `json:"lead_id"`
	Email      string    `json:"email"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewLeadCapturedEvent(lead *Lead) LeadCapturedEvent {
	return LeadCapturedEvent{
		EventID:    uuid.New().String(),
		Version:    1,
		LeadID:     lead.ID,
		Email:      lead.Email,
		Source:     lead.Source,
		OccurredAt: time.Now().UTC(),
	}
}

type LeadRepositoryInterface interface {
	// Insert fails with ErrLeadAlreadyExists when the email is taken.
	Insert(ctx context.Context, lead *Lead) error
}

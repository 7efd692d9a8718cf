package usecase

import (
	"encoding/json"
	"time"
)

type SubmitLeadInput struct {
	Email    string          `json:"email"`
	Source   string          `json:"source,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`

	// Bot signals. Both are client-supplied; elapsed_ms may be fractional.
	Honeypot  string   `json:"website_url,omitempty"`
	ElapsedMs *float64 `json:"elapsed_ms,omitempty"`
}

type SubmitLeadOutput struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type CreatePortalSessionInput struct {
	UserID    string
	ReturnURL string
}

type CreatePortalSessionOutput struct {
	URL string `json:"url"`
}

// SubscriptionChange is what the webhook extracts from a processor subscription event.
type SubscriptionChange struct {
	EventType        string
	SubscriptionID   string
	CustomerID       string
	Status           string
	PriceID          string
	CurrentPeriodEnd time.Time
}

type SubscriptionStatusOutput struct {
	Status string `json:"status"`
}

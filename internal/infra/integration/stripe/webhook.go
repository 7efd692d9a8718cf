package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

const DefaultTolerance = webhook.DefaultTolerance

var (
	ErrMissingSignature = errors.New("missing stripe signature")
	ErrInvalidSignature = errors.New("invalid stripe signature")
	ErrExpiredSignature = errors.New("stripe signature timestamp outside tolerance")
)

// ConstructEvent verifies the Stripe-Signature header against the raw payload and decodes the event.
// Signature failures match ErrMissingSignature, ErrInvalidSignature or ErrExpiredSignature.
func ConstructEvent(payload []byte, header, secret string, tolerance time.Duration) (*Event, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	ev, err := webhook.ConstructEventWithOptions(payload, header, secret, webhook.ConstructEventOptions{
		Tolerance:                tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrNotSigned):
			return nil, ErrMissingSignature
		case errors.Is(err, webhook.ErrTooOld):
			return nil, ErrExpiredSignature
		case errors.Is(err, webhook.ErrInvalidHeader), errors.Is(err, webhook.ErrNoValidSignature):
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("decode stripe event: %w", err)
	}
	if ev.Type == "" {
		return nil, errors.New("stripe event without type")
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data != nil {
		out.Data.Object = ev.Data.Raw
	}
	return out, nil
}

func IsSignatureError(err error) bool {
	return errors.Is(err, ErrMissingSignature) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpiredSignature)
}

func (e *Event) Subscription() (*SubscriptionObject, error) {
	var sub SubscriptionObject
	if err := json.Unmarshal(e.Data.Object, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription object: %w", err)
	}
	return &sub, nil
}

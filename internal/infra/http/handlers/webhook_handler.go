package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/infra/integration/stripe"
	"github.com/xavierca1/nexmart-api/internal/usecase"
)

const maxWebhookBodyBytes = 64 << 10

type WebhookHandler struct {
	SyncSubscriptionUC *usecase.SyncSubscriptionUseCase
	Secret             string
	Tolerance          time.Duration
	Logger             *zap.Logger
}

func NewWebhookHandler(uc *usecase.SyncSubscriptionUseCase, secret string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		SyncSubscriptionUC: uc,
		Secret:             secret,
		Tolerance:          stripe.DefaultTolerance,
		Logger:             logger,
	}
}

// Handle (POST /stripe-webhook)
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" {
		h.Logger.Error("stripe webhook secret not configured")
		writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeMisconfigured, "Server misconfigured")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidEvent, "Unreadable body")
		return
	}

	event, err := stripe.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.Secret, h.Tolerance)
	if err != nil {
		if stripe.IsSignatureError(err) {
			h.Logger.Warn("stripe webhook signature rejected", zap.Error(err))
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidEvent, "Invalid signature")
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidEvent, "Invalid event")
		return
	}

	if !usecase.IsSubscriptionEvent(event.Type) {
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	sub, err := event.Subscription()
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidEvent, "Invalid event")
		return
	}

	change := usecase.SubscriptionChange{
		EventType:      event.Type,
		SubscriptionID: sub.ID,
		CustomerID:     sub.Customer,
		Status:         sub.Status,
		PriceID:        sub.PriceID(),
	}
	if sub.CurrentPeriodEnd > 0 {
		change.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}

	if err := h.SyncSubscriptionUC.Execute(r.Context(), change); err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			writeErrorResponse(w, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			return
		}
		h.Logger.Error("subscription sync failed",
			zap.String("event_id", event.ID),
			zap.String("subscription_id", sub.ID),
			zap.Error(err),
		)
		writeErrorResponse(w, http.StatusInternalServerError, "", "Internal server error")
		return
	}

	h.Logger.Info("subscription synced",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("subscription_id", sub.ID),
	)
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

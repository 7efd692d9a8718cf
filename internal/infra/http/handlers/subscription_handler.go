package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/infra/http/middleware"
	"github.com/xavierca1/nexmart-api/internal/usecase"
)

type SubscriptionHandler struct {
	GetStatusUC *usecase.GetSubscriptionStatusUseCase
	Logger      *zap.Logger
}

func NewSubscriptionHandler(uc *usecase.GetSubscriptionStatusUseCase, logger *zap.Logger) *SubscriptionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionHandler{GetStatusUC: uc, Logger: logger}
}

// GetStatus (GET /subscription/status)
func (h *SubscriptionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "Unauthorized")
		return
	}

	output, err := h.GetStatusUC.Execute(r.Context(), userID)
	if err != nil {
		h.Logger.Error("subscription status lookup failed", zap.String("user_id", userID), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "", "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, output)
}

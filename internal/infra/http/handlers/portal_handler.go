package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/infra/http/middleware"
	"github.com/xavierca1/nexmart-api/internal/usecase"
)

type PortalHandler struct {
	CreatePortalSessionUC *usecase.CreatePortalSessionUseCase
	Logger                *zap.Logger
}

func NewPortalHandler(uc *usecase.CreatePortalSessionUseCase, logger *zap.Logger) *PortalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalHandler{CreatePortalSessionUC: uc, Logger: logger}
}

type portalRequest struct {
	ReturnURL string `json:"return_url"`
}

// CreatePortalSession expects middleware.RequireUser in front of it.
func (h *PortalHandler) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.RecordPortalSession("unauthorized")
		writeErrorResponse(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "Unauthorized")
		return
	}

	// The body is optional; only return_url is read from it.
	var req portalRequest
	if r.Body != nil {
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.Logger.Debug("ignoring unreadable portal request body", zap.Error(err))
		}
	}

	output, err := h.CreatePortalSessionUC.Execute(r.Context(), usecase.CreatePortalSessionInput{
		UserID:    userID,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			middleware.RecordPortalSession("no_customer")
			writeErrorResponse(w, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			return
		}

		code := usecase.ErrorCode(err)
		h.Logger.Error("portal session failed",
			zap.String("user_id", userID),
			zap.String("code", code),
			zap.Error(err),
		)
		middleware.RecordPortalSession("error")
		if code == usecase.CodeMisconfigured {
			writeErrorResponse(w, http.StatusInternalServerError, code, "Server misconfigured")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "", "Internal server error")
		return
	}

	middleware.RecordPortalSession("created")
	writeJSON(w, http.StatusOK, output)
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/infra/http/middleware"
	"github.com/xavierca1/nexmart-api/internal/ratelimit"
	"github.com/xavierca1/nexmart-api/internal/usecase"
)

// MaxLeadBodyBytes caps the submit-lead request body.
const MaxLeadBodyBytes = 16 << 10

type LeadHandler struct {
	SubmitLeadUC *usecase.SubmitLeadUseCase
	Limiter      ratelimit.Limiter
	TrustProxy   bool
	Logger       *zap.Logger
}

func NewLeadHandler(uc *usecase.SubmitLeadUseCase, limiter ratelimit.Limiter, trustProxy bool, logger *zap.Logger) *LeadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadHandler{
		SubmitLeadUC: uc,
		Limiter:      limiter,
		TrustProxy:   trustProxy,
		Logger:       logger,
	}
}

// SubmitLead handles POST /submit-lead.
// Order: method, rate limit, body decode, validation, insert.
func (h *LeadHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeErrorResponse(w, http.StatusMethodNotAllowed, "", "Method not allowed")
		return
	}

	key := ratelimit.ClientAddress(r, h.TrustProxy)
	decision, err := h.Limiter.Allow(r.Context(), key)
	if err != nil {
		h.Logger.Error("rate limiter unavailable", zap.String("client", key), zap.Error(err))
		middleware.RecordLeadSubmission("error")
		writeErrorResponse(w, http.StatusInternalServerError, "", "Internal server error")
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if !decision.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(decision)))
		middleware.RecordLeadSubmission("rate_limited")
		writeErrorResponse(w, http.StatusTooManyRequests, "", "Too many requests")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxLeadBodyBytes)
	var input usecase.SubmitLeadInput
	if err := decodeSingleJSON(r.Body, &input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Logger.Info("lead body too large", zap.String("client", key))
		}
		middleware.RecordLeadSubmission("invalid")
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidJSON, "Invalid JSON")
		return
	}

	output, err := h.SubmitLeadUC.Execute(r.Context(), input)
	if err != nil {
		h.writeLeadError(w, err)
		return
	}

	middleware.RecordLeadSubmission("accepted")
	writeJSON(w, http.StatusOK, output)
}

func (h *LeadHandler) writeLeadError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case usecase.CodeDuplicateLead:
			middleware.RecordLeadSubmission("duplicate")
			writeErrorResponse(w, http.StatusConflict, domainErr.Code, domainErr.Message)
		case usecase.CodeSuspicious:
			middleware.RecordLeadSubmission("suspicious")
			writeErrorResponse(w, http.StatusBadRequest, domainErr.Code, domainErr.Message)
		default:
			middleware.RecordLeadSubmission("invalid")
			writeErrorResponse(w, http.StatusBadRequest, domainErr.Code, domainErr.Message)
		}
		return
	}

	h.Logger.Error("lead submission failed", zap.String("code", usecase.ErrorCode(err)), zap.Error(err))
	middleware.RecordLeadSubmission("error")
	writeErrorResponse(w, http.StatusInternalServerError, "", "Internal server error")
}

// decodeSingleJSON rejects bodies carrying anything but whitespace after the first value.
func decodeSingleJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func retryAfterSeconds(d ratelimit.Decision) int {
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/emlakos/verify-api/internal/application/registration"
	"github.com/emlakos/verify-api/internal/application/verification"
	"github.com/go-chi/chi/v5"
)

// ConfirmEmailHandler handles the email confirmation flow endpoints: resend
// (re-issues a code) and validate-code (performs the verified transition).
type ConfirmEmailHandler struct {
	issuer   registration.Service
	verifier verification.Service
}

func NewConfirmEmailHandler(issuer registration.Service, verifier verification.Service) *ConfirmEmailHandler {
	return &ConfirmEmailHandler{issuer: issuer, verifier: verifier}
}

func (h *ConfirmEmailHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "resend":
		var body struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if _, err := h.issuer.ResendCode(r.Context(), body.Email); err != nil {
			httpError(w, err)
			return
		}
		slog.Info("verification code reissued", "email", body.Email)
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "a new verification code was sent to your email"})
	case "validate-code":
		var body struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.verifier.VerifyEmail(r.Context(), body.Email, body.Code); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

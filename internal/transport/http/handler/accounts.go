package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/emlakos/verify-api/internal/application/registration"
	"github.com/emlakos/verify-api/internal/domain"
)

// AccountHandler handles account registration.
type AccountHandler struct {
	svc registration.Service
}

func NewAccountHandler(svc registration.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account, _, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	slog.Info("verification code issued", "email", account.Email, "account_id", account.ID)
	writeJSON(w, http.StatusCreated, RegisterEnvelope{
		Account: account,
		Message: "registration successful, enter the verification code sent to your email",
	})
}

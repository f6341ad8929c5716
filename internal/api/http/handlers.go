// Package http exposes the admin API consumed by the mobile app. The
// handlers are stateless consumers of the core services; no business
// logic lives here.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"courtledger-backend/internal/directory"
	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/service"
)

// Handler bundles the API's service dependencies
type Handler struct {
	users      service.UserService
	ledger     service.LedgerService
	log        service.TransactionLogService
	settlement service.SettlementService
	directory  *directory.Directory
}

func NewHandler(users service.UserService, ledger service.LedgerService, log service.TransactionLogService, settlement service.SettlementService, dir *directory.Directory) *Handler {
	return &Handler{
		users:      users,
		ledger:     ledger,
		log:        log,
		settlement: settlement,
		directory:  dir,
	}
}

// Router builds the API route table
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", h.deleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/users/{id}/topup", h.topUp).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/deduct", h.deduct).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/balance", h.setBalance).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}/transactions", h.userTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", h.allTransactions).Methods(http.MethodGet)
	api.HandleFunc("/settlement/run", h.runSettlement).Methods(http.MethodPost)
	api.HandleFunc("/settlement/preview", h.previewSettlement).Methods(http.MethodPost)

	return r
}

// listUsers serves the directory's live snapshot rather than querying
// the store, matching what the app's list screen observes.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.directory.CurrentUsers())
}

type createUserRequest struct {
	Name                string `json:"name"`
	Credential          string `json:"credential"`
	InitialBalanceCents int64  `json:"initial_balance_cents"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Credential, req.InitialBalanceCents)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type mutationRequest struct {
	UserName    string `json:"user_name"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
}

type mutationResponse struct {
	Transaction     *domain.Transaction `json:"transaction"`
	NewBalanceCents int64               `json:"new_balance_cents"`
}

func (h *Handler) topUp(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledger.TopUp)
}

func (h *Handler) deduct(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledger.Deduct)
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, userName string, amountCents int64, description string) (*domain.Transaction, int64, error)) {
	id := mux.Vars(r)["id"]

	var req mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, newBalance, err := op(r.Context(), id, req.UserName, req.AmountCents, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Transaction: tx, NewBalanceCents: newBalance})
}

type setBalanceRequest struct {
	BalanceCents int64 `json:"balance_cents"`
}

func (h *Handler) setBalance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req setBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ledger.SetBalance(r.Context(), id, req.BalanceCents); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userTransactions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	txs, err := h.log.ForUser(r.Context(), id, limitParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) allTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.log.All(r.Context(), limitParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) runSettlement(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.settlement.RunWeeklySettlement)
}

func (h *Handler) previewSettlement(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.settlement.PreviewWeeklySettlement)
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, in domain.SettlementInputs) (*domain.WeeklyReport, error)) {
	var in domain.SettlementInputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := op(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the core's error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("Unhandled error in API", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

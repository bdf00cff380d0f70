/*
handlers.go - HTTP handlers for the banking demo

PURPOSE:
  Exposes the ledger core over REST. Handlers parse and validate JSON,
  delegate to the core, and translate its error kinds to HTTP statuses.
  All business rules live in the core; nothing here mutates state directly.

ENDPOINTS:
  Accounts:
    GET    /api/accounts                     List accounts
    POST   /api/accounts                     Create account
    GET    /api/accounts/{id}                Get by id or account number
    PUT    /api/accounts/{id}                Update account
    DELETE /api/accounts/{id}                Delete account (cascades txs)
    GET    /api/accounts/{id}/transactions   Account transaction history
    GET    /api/accounts/{id}/loans          Account loans
    GET    /api/accounts/{id}/credits        Account credits

  Transactions:
    POST   /api/transactions                 Post deposit/withdrawal

  Loans / Credits:
    GET/POST /api/loans, PUT /api/loans/{id}
    GET/POST /api/credits, PUT /api/credits/{id}

  Auth:
    POST   /api/auth/login                   See auth.go
    GET    /api/me                           (bearer token)

ERROR HANDLING:
  - 400: validation errors, ledger.ErrInvalidInput
  - 401: authentication failures (auth.go)
  - 404: ledger not-found kinds
  - 500: everything else

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/meridianbank/bankcore/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Bank      *ledger.Bank
	JWTSecret []byte
	TokenTTL  time.Duration

	validate *validator.Validate
}

// NewHandler creates a handler around the given core.
func NewHandler(bank *ledger.Bank, jwtSecret []byte) *Handler {
	return &Handler{
		Bank:      bank,
		JWTSecret: jwtSecret,
		TokenTTL:  24 * time.Hour,
		validate:  validator.New(),
	}
}

// decodeAndValidate decodes the body into dst and runs struct validation,
// writing the 400 itself. Returns false if the handler should stop.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// writeLedgerError maps core error kinds to HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case ledger.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAccountDTOs(h.Bank.Accounts()))
}

// GetAccount returns one account by id or account number.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.Bank.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

// CreateAccount creates an account, filling in a generated account number
// and initial password when the caller leaves them blank - the defaults the
// original admin form supplied.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if req.AccountNumber == "" {
		req.AccountNumber = ledger.GenerateAccountNumber()
	}
	if req.Password == "" {
		req.Password = ledger.GenerateTempPassword()
	}

	account, err := h.Bank.CreateAccount(r.Context(), ledger.CreateAccountParams{
		AccountNumber:  req.AccountNumber,
		Password:       req.Password,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		InitialBalance: decimal.NewFromFloat(req.InitialBalance),
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountDTO(account))
}

// UpdateAccount applies a partial update to an account. {id} accepts an id
// or an account number, like every other account route.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req UpdateAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	target, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	patch := ledger.AccountPatch{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	}
	if req.Status != nil {
		status := ledger.AccountStatus(*req.Status)
		patch.Status = &status
	}

	account, err := h.Bank.UpdateAccount(r.Context(), target.ID, patch)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

// DeleteAccount removes an account and its transactions. {id} accepts an id
// or an account number.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}
	if err := h.Bank.DeleteAccount(r.Context(), target.ID); err != nil {
		writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveAccount turns the {id} URL param into an account, writing the 404
// itself on a miss.
func (h *Handler) resolveAccount(w http.ResponseWriter, r *http.Request) (ledger.Account, bool) {
	account, err := h.Bank.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, err)
		return ledger.Account{}, false
	}
	return account, true
}

// GetAccountTransactions returns the transaction history for an account.
func (h *Handler) GetAccountTransactions(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(h.Bank.AccountTransactions(account.ID)))
}

// GetAccountLoans returns the loans filed against an account.
func (h *Handler) GetAccountLoans(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTOs(h.Bank.AccountLoans(account.ID)))
}

// GetAccountCredits returns the credits filed against an account.
func (h *Handler) GetAccountCredits(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCreditDTOs(h.Bank.AccountCredits(account.ID)))
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// PostTransaction posts a deposit or withdrawal.
func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	var req PostTransactionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.Bank.PostTransaction(r.Context(), ledger.PostTransactionParams{
		AccountID:   ledger.AccountID(req.AccountID),
		Type:        ledger.TransactionType(req.Type),
		Amount:      decimal.NewFromFloat(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// ListTransactions returns the full transaction log.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTransactionDTOs(h.Bank.Transactions()))
}

// =============================================================================
// LOAN HANDLERS
// =============================================================================

// ListLoans returns all loan applications.
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toLoanDTOs(h.Bank.Loans()))
}

// CreateLoan files a loan application.
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req CreateLoanRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	loan, err := h.Bank.CreateLoan(r.Context(), ledger.CreateLoanParams{
		AccountID: ledger.AccountID(req.AccountID),
		Amount:    decimal.NewFromFloat(req.Amount),
		Term:      req.Term,
		Purpose:   req.Purpose,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLoanDTO(loan))
}

// UpdateLoan changes a loan's status or fields; approval credits the account.
func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req UpdateApplicationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	patch := ledger.LoanPatch{Term: req.Term, Purpose: req.Purpose}
	if req.Status != nil {
		status := ledger.ApplicationStatus(*req.Status)
		patch.Status = &status
	}

	loan, err := h.Bank.UpdateLoan(r.Context(), ledger.LoanID(chi.URLParam(r, "id")), patch)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(loan))
}

// =============================================================================
// CREDIT HANDLERS
// =============================================================================

// ListCredits returns all credit applications.
func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCreditDTOs(h.Bank.Credits()))
}

// CreateCredit files a credit application.
func (h *Handler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var req CreateCreditRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	credit, err := h.Bank.CreateCredit(r.Context(), ledger.CreateCreditParams{
		AccountID:  ledger.AccountID(req.AccountID),
		Amount:     decimal.NewFromFloat(req.Amount),
		CreditType: req.CreditType,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCreditDTO(credit))
}

// UpdateCredit changes a credit's status or fields; approval credits the
// account.
func (h *Handler) UpdateCredit(w http.ResponseWriter, r *http.Request) {
	var req UpdateApplicationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	patch := ledger.CreditPatch{CreditType: req.CreditType}
	if req.Status != nil {
		status := ledger.ApplicationStatus(*req.Status)
		patch.Status = &status
	}

	credit, err := h.Bank.UpdateCredit(r.Context(), ledger.CreditID(chi.URLParam(r, "id")), patch)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCreditDTO(credit))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

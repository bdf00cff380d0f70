/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface. These decouple the ledger core's
  records from the API contract: amounts cross the wire as float64 (the
  shape the frontend expects), while the core keeps decimals.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

VALIDATION:
  Request types carry validator tags; handlers run them through a shared
  validator instance before touching the core.

SEE ALSO:
  - handlers.go: uses these types
  - auth.go: login request/response
*/
package api

import (
	"time"

	"github.com/meridianbank/bankcore/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateAccountRequest creates an account. AccountNumber and Password are
// generated server-side when absent, the way the original admin form did.
type CreateAccountRequest struct {
	AccountNumber  string  `json:"accountNumber"`
	Password       string  `json:"password"`
	FullName       string  `json:"fullName" validate:"required"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	InitialBalance float64 `json:"initialBalance" validate:"gte=0"`
}

// UpdateAccountRequest is a partial account update.
type UpdateAccountRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Password *string `json:"password,omitempty"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// PostTransactionRequest posts a deposit or withdrawal.
type PostTransactionRequest struct {
	AccountID   string  `json:"accountId" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Amount      float64 `json:"amount" validate:"required"`
	Description string  `json:"description"`
}

// CreateLoanRequest files a loan application.
type CreateLoanRequest struct {
	AccountID string  `json:"accountId" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Term      string  `json:"term"`
	Purpose   string  `json:"purpose"`
}

// CreateCreditRequest files a credit application.
type CreateCreditRequest struct {
	AccountID  string  `json:"accountId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	CreditType string  `json:"creditType"`
}

// UpdateApplicationRequest changes a loan's or credit's status and
// type-specific fields.
type UpdateApplicationRequest struct {
	Status     *string `json:"status,omitempty"`
	Term       *string `json:"term,omitempty"`
	Purpose    *string `json:"purpose,omitempty"`
	CreditType *string `json:"creditType,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AccountDTO is an account in API responses. The password is included:
// this is a single-tenant demo whose admin UI displays initial credentials.
type AccountDTO struct {
	ID            string  `json:"id"`
	AccountNumber string  `json:"accountNumber"`
	Balance       float64 `json:"balance"`
	FullName      string  `json:"fullName"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Address       string  `json:"address,omitempty"`
	Password      string  `json:"password,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

// TransactionDTO is a transaction in API responses.
type TransactionDTO struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"accountId"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
}

// LoanDTO is a loan in API responses.
type LoanDTO struct {
	ID        string  `json:"id"`
	AccountID string  `json:"accountId"`
	Amount    float64 `json:"amount"`
	Term      string  `json:"term,omitempty"`
	Purpose   string  `json:"purpose,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// CreditDTO is a credit in API responses.
type CreditDTO struct {
	ID         string  `json:"id"`
	AccountID  string  `json:"accountId"`
	Amount     float64 `json:"amount"`
	CreditType string  `json:"creditType,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toAccountDTO(a ledger.Account) AccountDTO {
	balance, _ := a.Balance.Float64()
	return AccountDTO{
		ID:            string(a.ID),
		AccountNumber: a.AccountNumber,
		Balance:       balance,
		FullName:      a.FullName,
		Email:         a.Email,
		Phone:         a.Phone,
		Address:       a.Address,
		Password:      a.Password,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func toAccountDTOs(accounts []ledger.Account) []AccountDTO {
	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(a)
	}
	return dtos
}

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	amount, _ := tx.Amount.Float64()
	return TransactionDTO{
		ID:          string(tx.ID),
		AccountID:   string(tx.AccountID),
		Type:        string(tx.Type),
		Amount:      amount,
		Description: tx.Description,
		Date:        tx.Date.Format(time.RFC3339),
	}
}

func toTransactionDTOs(txs []ledger.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	return dtos
}

func toLoanDTO(l ledger.Loan) LoanDTO {
	amount, _ := l.Amount.Float64()
	return LoanDTO{
		ID:        string(l.ID),
		AccountID: string(l.AccountID),
		Amount:    amount,
		Term:      l.Term,
		Purpose:   l.Purpose,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}

func toLoanDTOs(loans []ledger.Loan) []LoanDTO {
	dtos := make([]LoanDTO, len(loans))
	for i, l := range loans {
		dtos[i] = toLoanDTO(l)
	}
	return dtos
}

func toCreditDTO(c ledger.Credit) CreditDTO {
	amount, _ := c.Amount.Float64()
	return CreditDTO{
		ID:         string(c.ID),
		AccountID:  string(c.AccountID),
		Amount:     amount,
		CreditType: c.CreditType,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func toCreditDTOs(credits []ledger.Credit) []CreditDTO {
	dtos := make([]CreditDTO, len(credits))
	for i, c := range credits {
		dtos[i] = toCreditDTO(c)
	}
	return dtos
}

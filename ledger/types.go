/*
Package ledger is the core of the banking demo: account balances, the
transaction log, and the loan/credit lifecycle.

PURPOSE:
  This package owns the four record collections (accounts, transactions,
  loans, credits) and every operation that mutates them. Callers outside the
  package only read snapshots and invoke Bank methods; they never touch the
  collections directly.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: balance-bearing customer record
  - Transaction: an immutable balance-affecting event (deposit/withdrawal)
  - Loan/Credit: applications with a pending/approved/rejected flag
  - Patch types: pointer-field partial updates

DESIGN PRINCIPLES:
  1. Balance integrity: an account's balance always equals the signed sum of
     its surviving transactions. Only the posting path moves it.
  2. Immutability: transactions are never updated, only created and
     cascade-deleted with their account.
  3. Precision: decimal.Decimal for money, never float64.
  4. Type safety: distinct ID types for accounts vs. transactions.

SEE ALSO:
  - core.go: the Bank type and its operations
  - errors.go: error kinds raised by those operations
  - snapshot.go: persistence contract
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AccountID string
type TransactionID string
type LoanID string
type CreditID string

// =============================================================================
// ACCOUNT
// =============================================================================

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Account is the source of truth for a customer's balance.
// Balance is only ever written by the posting path in core.go.
type Account struct {
	ID            AccountID       `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	FullName      string          `json:"fullName"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Password      string          `json:"password"`
	Status        AccountStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CreateAccountParams carries the caller-supplied fields for a new account.
// AccountNumber and Password are required; InitialBalance defaults to zero.
type CreateAccountParams struct {
	AccountNumber  string
	Password       string
	FullName       string
	Email          string
	Phone          string
	Address        string
	InitialBalance decimal.Decimal
}

// AccountPatch is a partial update. Nil fields are left untouched.
// There is intentionally no Balance field: balances move only through
// PostTransaction.
type AccountPatch struct {
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
	Password *string
	Status   *AccountStatus
}

// =============================================================================
// TRANSACTION
// =============================================================================

type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
)

// Transaction records one balance-affecting event. Immutable once created;
// the only deletion is the cascade when its account is deleted.
type Transaction struct {
	ID          TransactionID   `json:"id"`
	AccountID   AccountID       `json:"accountId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// Delta is the signed effect of this transaction on its account's balance.
func (t Transaction) Delta() decimal.Decimal {
	if t.Type == TxWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// PostTransactionParams carries a deposit or withdrawal to be posted.
type PostTransactionParams struct {
	AccountID   AccountID
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
}

// =============================================================================
// LOAN / CREDIT APPLICATIONS
// =============================================================================

// ApplicationStatus is a flag-style field, not a strict progression: any
// transition between the three values is permitted, including back to pending.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Loan is a loan application tied to an account.
type Loan struct {
	ID        LoanID            `json:"id"`
	AccountID AccountID         `json:"accountId"`
	Amount    decimal.Decimal   `json:"amount"`
	Term      string            `json:"term"`
	Purpose   string            `json:"purpose"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Credit is a credit application tied to an account. Same lifecycle as Loan,
// differing only in its type-specific field.
type Credit struct {
	ID         CreditID          `json:"id"`
	AccountID  AccountID         `json:"accountId"`
	Amount     decimal.Decimal   `json:"amount"`
	CreditType string            `json:"creditType"`
	Status     ApplicationStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// CreateLoanParams carries a new loan application.
type CreateLoanParams struct {
	AccountID AccountID
	Amount    decimal.Decimal
	Term      string
	Purpose   string
}

// CreateCreditParams carries a new credit application.
type CreateCreditParams struct {
	AccountID  AccountID
	Amount     decimal.Decimal
	CreditType string
}

// LoanPatch is a partial update to a loan. A Status transition into approved
// triggers the credit deposit; see Bank.UpdateLoan.
type LoanPatch struct {
	Status  *ApplicationStatus
	Term    *string
	Purpose *string
}

// CreditPatch is a partial update to a credit.
type CreditPatch struct {
	Status     *ApplicationStatus
	CreditType *string
}

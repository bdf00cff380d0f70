/*
core.go - The Bank: orchestrating core for accounts, transactions, loans, credits

PURPOSE:
  Bank owns all four collections and is the only writer to any of them.
  It creates accounts (optionally with an opening deposit), posts deposits
  and withdrawals atomically with the balance update, and converts loan or
  credit approvals into synthesized deposit transactions.

CRITICAL INVARIANTS:
  1. BALANCE: an account's balance equals the signed sum of its surviving
     transactions (plus any non-positive opening balance). Holds after every
     operation.
  2. ATOMICITY: the log append and the balance update commit together under
     one lock; no reader observes one without the other.
  3. CASCADE: deleting an account deletes all of its transactions. Loans and
     credits referencing it are left dangling on purpose.
  4. APPROVAL: a transition into approved credits the account exactly once.
     Re-approving an already-approved application is a no-op for the ledger.

CONCURRENCY:
  The four collections form one consistency domain (a posting spans two of
  them), so a single mutex serializes every state-mutating operation rather
  than four independent locks.

PERSISTENCE:
  After each mutation the affected collections are saved through the
  Snapshotter. Saves are best-effort: failures are logged and swallowed,
  never rolled back into the in-memory state.

SEE ALSO:
  - types.go: record and patch types
  - errors.go: error kinds raised here
  - snapshot.go: persistence contract
*/
package ledger

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Bank is the ledger core. Construct with NewBank; the zero value is not
// usable.
type Bank struct {
	mu           sync.Mutex
	accounts     []Account
	transactions []Transaction
	loans        []Loan
	credits      []Credit

	snapshots Snapshotter

	// Clock supplies timestamps; override in tests.
	Clock func() time.Time
}

// NewBank loads each collection once from the snapshotter and returns a
// ready core. A load failure is fatal here: starting with partial state
// would silently break the balance invariant.
func NewBank(ctx context.Context, snapshots Snapshotter) (*Bank, error) {
	b := &Bank{
		snapshots: snapshots,
		Clock:     time.Now,
	}

	for key, out := range map[string]any{
		KeyAccounts:     &b.accounts,
		KeyTransactions: &b.transactions,
		KeyLoans:        &b.loans,
		KeyCredits:      &b.credits,
	} {
		if err := snapshots.Load(ctx, key, out); err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
	}

	return b, nil
}

// =============================================================================
// ACCOUNT OPERATIONS
// =============================================================================

// CreateAccount creates an account and, when the opening balance is
// positive, posts the opening deposit through the same path as any other
// transaction so the balance invariant holds from the first observable
// state.
func (b *Bank) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	if params.AccountNumber == "" {
		return Account{}, invalidInput("accountNumber", "required")
	}
	if params.Password == "" {
		return Account{}, invalidInput("password", "required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	account := Account{
		ID:            AccountID(NewID()),
		AccountNumber: params.AccountNumber,
		Balance:       decimal.Zero,
		FullName:      params.FullName,
		Email:         params.Email,
		Phone:         params.Phone,
		Address:       params.Address,
		Password:      params.Password,
		Status:        AccountActive,
		CreatedAt:     b.Clock(),
	}
	if !params.InitialBalance.IsPositive() {
		// Zero or negative opening balances carry no transaction.
		account.Balance = params.InitialBalance
	}
	b.accounts = append(b.accounts, account)

	if params.InitialBalance.IsPositive() {
		if _, err := b.postLocked(PostTransactionParams{
			AccountID:   account.ID,
			Type:        TxDeposit,
			Amount:      params.InitialBalance,
			Description: "Initial deposit",
		}); err != nil {
			// Cannot happen for an account we just inserted, but do not
			// leave a half-created account behind if it ever does.
			b.accounts = b.accounts[:len(b.accounts)-1]
			return Account{}, err
		}
	}

	b.persist(ctx, KeyAccounts, KeyTransactions)
	return *b.findAccountLocked(account.ID), nil
}

// UpdateAccount merges patch into the account with the given id.
// Transactions are unaffected; the balance is not patchable.
func (b *Bank) UpdateAccount(ctx context.Context, id AccountID, patch AccountPatch) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	account := b.findAccountLocked(id)
	if account == nil {
		return Account{}, fmt.Errorf("update account %s: %w", id, ErrAccountNotFound)
	}

	if patch.Status != nil && *patch.Status != AccountActive && *patch.Status != AccountInactive {
		return Account{}, invalidInput("status", "must be active or inactive")
	}

	if patch.FullName != nil {
		account.FullName = *patch.FullName
	}
	if patch.Email != nil {
		account.Email = *patch.Email
	}
	if patch.Phone != nil {
		account.Phone = *patch.Phone
	}
	if patch.Address != nil {
		account.Address = *patch.Address
	}
	if patch.Password != nil {
		account.Password = *patch.Password
	}
	if patch.Status != nil {
		account.Status = *patch.Status
	}

	b.persist(ctx, KeyAccounts)
	return *account, nil
}

// DeleteAccount removes the account and cascades to its transactions.
// Loans and credits referencing the account are left in place; resolving
// them later yields ErrAccountNotFound.
func (b *Bank) DeleteAccount(ctx context.Context, id AccountID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := -1
	for i := range b.accounts {
		if b.accounts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("delete account %s: %w", id, ErrAccountNotFound)
	}

	b.accounts = append(b.accounts[:idx], b.accounts[idx+1:]...)

	kept := b.transactions[:0]
	for _, tx := range b.transactions {
		if tx.AccountID != id {
			kept = append(kept, tx)
		}
	}
	b.transactions = kept

	b.persist(ctx, KeyAccounts, KeyTransactions)
	return nil
}

// GetAccount looks an account up by id or by account number, in that order.
func (b *Bank) GetAccount(key string) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.accounts {
		if string(b.accounts[i].ID) == key || b.accounts[i].AccountNumber == key {
			return b.accounts[i], nil
		}
	}
	return Account{}, fmt.Errorf("get account %q: %w", key, ErrAccountNotFound)
}

// Accounts returns a copy of the account collection.
func (b *Bank) Accounts() []Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Account(nil), b.accounts...)
}

// =============================================================================
// TRANSACTION POSTING - the ledger-critical path
// =============================================================================

// PostTransaction appends a transaction and moves the account balance by
// its signed amount, atomically with respect to every other operation.
// Withdrawals may drive the balance negative: no sufficiency check is made,
// which is a deliberate policy, not an oversight.
func (b *Bank) PostTransaction(ctx context.Context, params PostTransactionParams) (Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.postLocked(params)
	if err != nil {
		return Transaction{}, err
	}

	b.persist(ctx, KeyAccounts, KeyTransactions)
	return tx, nil
}

// postLocked validates and commits a posting. Callers hold b.mu and are
// responsible for persisting afterwards.
func (b *Bank) postLocked(params PostTransactionParams) (Transaction, error) {
	if params.Type != TxDeposit && params.Type != TxWithdrawal {
		return Transaction{}, invalidInput("type", "must be deposit or withdrawal")
	}
	if !params.Amount.IsPositive() {
		return Transaction{}, invalidInput("amount", "must be positive")
	}

	account := b.findAccountLocked(params.AccountID)
	if account == nil {
		return Transaction{}, fmt.Errorf("post to account %s: %w", params.AccountID, ErrAccountNotFound)
	}

	tx := Transaction{
		ID:          TransactionID(NewID()),
		AccountID:   params.AccountID,
		Type:        params.Type,
		Amount:      params.Amount,
		Description: params.Description,
		Date:        b.Clock(),
	}

	b.transactions = append(b.transactions, tx)
	account.Balance = account.Balance.Add(tx.Delta())
	return tx, nil
}

// AccountTransactions returns the transactions for one account, a filtered
// view recomputed on each call.
func (b *Bank) AccountTransactions(accountID AccountID) []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Transaction
	for _, tx := range b.transactions {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

// Transactions returns a copy of the full transaction log.
func (b *Bank) Transactions() []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Transaction(nil), b.transactions...)
}

// =============================================================================
// LOAN LIFECYCLE
// =============================================================================

// CreateLoan registers a loan application in pending state.
func (b *Bank) CreateLoan(ctx context.Context, params CreateLoanParams) (Loan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !params.Amount.IsPositive() {
		return Loan{}, invalidInput("amount", "must be positive")
	}
	if b.findAccountLocked(params.AccountID) == nil {
		return Loan{}, fmt.Errorf("loan for account %s: %w", params.AccountID, ErrAccountNotFound)
	}

	loan := Loan{
		ID:        LoanID(NewID()),
		AccountID: params.AccountID,
		Amount:    params.Amount,
		Term:      params.Term,
		Purpose:   params.Purpose,
		Status:    StatusPending,
		CreatedAt: b.Clock(),
	}
	b.loans = append(b.loans, loan)

	b.persist(ctx, KeyLoans)
	return loan, nil
}

// UpdateLoan merges patch into the loan. A transition into approved posts a
// single deposit of the loan amount to the loan's account before the merge
// is committed; if that posting fails (for example the account was deleted),
// the loan is left unchanged. An already-approved loan is never re-credited.
func (b *Bank) UpdateLoan(ctx context.Context, id LoanID, patch LoanPatch) (Loan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var loan *Loan
	for i := range b.loans {
		if b.loans[i].ID == id {
			loan = &b.loans[i]
			break
		}
	}
	if loan == nil {
		return Loan{}, fmt.Errorf("update loan %s: %w", id, ErrLoanNotFound)
	}

	if patch.Status != nil && !patch.Status.valid() {
		return Loan{}, invalidInput("status", "must be pending, approved or rejected")
	}

	keys := []string{KeyLoans}
	if patch.Status != nil && *patch.Status == StatusApproved && loan.Status != StatusApproved {
		if _, err := b.postLocked(PostTransactionParams{
			AccountID:   loan.AccountID,
			Type:        TxDeposit,
			Amount:      loan.Amount,
			Description: fmt.Sprintf("Loan approved #%s", shortID(string(id))),
		}); err != nil {
			return Loan{}, err
		}
		keys = append(keys, KeyAccounts, KeyTransactions)
	}

	if patch.Status != nil {
		loan.Status = *patch.Status
	}
	if patch.Term != nil {
		loan.Term = *patch.Term
	}
	if patch.Purpose != nil {
		loan.Purpose = *patch.Purpose
	}

	b.persist(ctx, keys...)
	return *loan, nil
}

// AccountLoans returns the loans for one account, recomputed on each call.
func (b *Bank) AccountLoans(accountID AccountID) []Loan {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Loan
	for _, l := range b.loans {
		if l.AccountID == accountID {
			out = append(out, l)
		}
	}
	return out
}

// Loans returns a copy of the loan registry.
func (b *Bank) Loans() []Loan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Loan(nil), b.loans...)
}

// =============================================================================
// CREDIT LIFECYCLE
// =============================================================================

// CreateCredit registers a credit application in pending state.
func (b *Bank) CreateCredit(ctx context.Context, params CreateCreditParams) (Credit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !params.Amount.IsPositive() {
		return Credit{}, invalidInput("amount", "must be positive")
	}
	if b.findAccountLocked(params.AccountID) == nil {
		return Credit{}, fmt.Errorf("credit for account %s: %w", params.AccountID, ErrAccountNotFound)
	}

	credit := Credit{
		ID:         CreditID(NewID()),
		AccountID:  params.AccountID,
		Amount:     params.Amount,
		CreditType: params.CreditType,
		Status:     StatusPending,
		CreatedAt:  b.Clock(),
	}
	b.credits = append(b.credits, credit)

	b.persist(ctx, KeyCredits)
	return credit, nil
}

// UpdateCredit merges patch into the credit, with the same approval
// semantics as UpdateLoan.
func (b *Bank) UpdateCredit(ctx context.Context, id CreditID, patch CreditPatch) (Credit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var credit *Credit
	for i := range b.credits {
		if b.credits[i].ID == id {
			credit = &b.credits[i]
			break
		}
	}
	if credit == nil {
		return Credit{}, fmt.Errorf("update credit %s: %w", id, ErrCreditNotFound)
	}

	if patch.Status != nil && !patch.Status.valid() {
		return Credit{}, invalidInput("status", "must be pending, approved or rejected")
	}

	keys := []string{KeyCredits}
	if patch.Status != nil && *patch.Status == StatusApproved && credit.Status != StatusApproved {
		if _, err := b.postLocked(PostTransactionParams{
			AccountID:   credit.AccountID,
			Type:        TxDeposit,
			Amount:      credit.Amount,
			Description: fmt.Sprintf("Credit approved #%s", shortID(string(id))),
		}); err != nil {
			return Credit{}, err
		}
		keys = append(keys, KeyAccounts, KeyTransactions)
	}

	if patch.Status != nil {
		credit.Status = *patch.Status
	}
	if patch.CreditType != nil {
		credit.CreditType = *patch.CreditType
	}

	b.persist(ctx, keys...)
	return *credit, nil
}

// AccountCredits returns the credits for one account, recomputed per call.
func (b *Bank) AccountCredits(accountID AccountID) []Credit {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Credit
	for _, c := range b.credits {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out
}

// Credits returns a copy of the credit registry.
func (b *Bank) Credits() []Credit {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Credit(nil), b.credits...)
}

// =============================================================================
// INTERNALS
// =============================================================================

func (b *Bank) findAccountLocked(id AccountID) *Account {
	for i := range b.accounts {
		if b.accounts[i].ID == id {
			return &b.accounts[i]
		}
	}
	return nil
}

// persist saves the named collections. Best-effort: the mutation already
// committed in memory, so a failed save is logged and swallowed.
func (b *Bank) persist(ctx context.Context, keys ...string) {
	for _, key := range keys {
		var records any
		switch key {
		case KeyAccounts:
			records = b.accounts
		case KeyTransactions:
			records = b.transactions
		case KeyLoans:
			records = b.loans
		case KeyCredits:
			records = b.credits
		}
		if err := b.snapshots.Save(ctx, key, records); err != nil {
			log.Printf("snapshot %s: %v: %v", key, ErrSnapshotFailed, err)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianbank/bankcore/api"
	"github.com/meridianbank/bankcore/ledger"
	"github.com/meridianbank/bankcore/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Bank) {
	t.Helper()
	bank, err := ledger.NewBank(context.Background(), memory.New())
	require.NoError(t, err)

	handler := api.NewHandler(bank, []byte("test-secret"))
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server, bank
}

func doJSON(t *testing.T, method, url string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func seedAccount(t *testing.T, bank *ledger.Bank, number string, balance float64) ledger.Account {
	t.Helper()
	account, err := bank.CreateAccount(context.Background(), ledger.CreateAccountParams{
		AccountNumber:  number,
		Password:       "secret",
		FullName:       "Ana Morales",
		InitialBalance: decimal.NewFromFloat(balance),
	})
	require.NoError(t, err)
	return account
}

// =============================================================================
// ACCOUNT ENDPOINTS
// =============================================================================

func TestAPI_CreateAccount_GeneratesDefaults(t *testing.T) {
	// GIVEN: a create request without account number or password
	// WHEN: POSTing it
	// THEN: 201 with server-generated credentials in the response

	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/accounts", map[string]any{
		"fullName":       "Ana Morales",
		"initialBalance": 100,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var account api.AccountDTO
	decodeBody(t, resp, &account)
	assert.Regexp(t, `^BOA-\d{10}$`, account.AccountNumber)
	assert.Regexp(t, `^TEMP\d{6}$`, account.Password)
	assert.Equal(t, 100.0, account.Balance)
	assert.Equal(t, "active", account.Status)
}

func TestAPI_CreateAccount_ValidationFailure(t *testing.T) {
	server, _ := newTestServer(t)

	// Missing fullName.
	resp := doJSON(t, http.MethodPost, server.URL+"/api/accounts", map[string]any{
		"initialBalance": 100,
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Negative opening balance.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/accounts", map[string]any{
		"fullName":       "Ana Morales",
		"initialBalance": -5,
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_GetAccount_ByNumberAndByID(t *testing.T) {
	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 50)

	for _, key := range []string{string(account.ID), "BOA-0000000001"} {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/accounts/"+key, nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got api.AccountDTO
		decodeBody(t, resp, &got)
		assert.Equal(t, string(account.ID), got.ID)
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/api/accounts/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_UpdateAndDeleteAccount_ByNumber(t *testing.T) {
	// GIVEN: an account reachable by number on the read routes
	// WHEN: PUT and DELETE use the account number instead of the id
	// THEN: both resolve it like GET does

	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 0)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/accounts/BOA-0000000001", map[string]any{
		"fullName": "Luisa Fernanda",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated api.AccountDTO
	decodeBody(t, resp, &updated)
	assert.Equal(t, string(account.ID), updated.ID)
	assert.Equal(t, "Luisa Fernanda", updated.FullName)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/accounts/BOA-0000000001", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	_, err := bank.GetAccount(string(account.ID))
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestAPI_DeleteAccount(t *testing.T) {
	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 0)

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/accounts/"+string(account.ID), nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/accounts/"+string(account.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// TRANSACTION ENDPOINTS
// =============================================================================

func TestAPI_PostTransaction(t *testing.T) {
	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 100)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/transactions", map[string]any{
		"accountId":   string(account.ID),
		"type":        "withdrawal",
		"amount":      30,
		"description": "ATM withdrawal",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tx api.TransactionDTO
	decodeBody(t, resp, &tx)
	assert.Equal(t, "withdrawal", tx.Type)
	assert.Equal(t, 30.0, tx.Amount)

	got, err := bank.GetAccount(string(account.ID))
	require.NoError(t, err)
	assert.Equal(t, "70", got.Balance.String())
}

func TestAPI_PostTransaction_BadType(t *testing.T) {
	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 100)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/transactions", map[string]any{
		"accountId": string(account.ID),
		"type":      "transfer",
		"amount":    30,
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_AccountTransactionHistory(t *testing.T) {
	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 100)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/accounts/"+string(account.ID)+"/transactions", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var txs []api.TransactionDTO
	decodeBody(t, resp, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, "Initial deposit", txs[0].Description)
}

// =============================================================================
// LOAN / CREDIT ENDPOINTS
// =============================================================================

func TestAPI_LoanLifecycle(t *testing.T) {
	// File a loan, approve it over HTTP, and confirm the synthesized deposit
	// landed on the account.

	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 0)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/loans", map[string]any{
		"accountId": string(account.ID),
		"amount":    500,
		"term":      "12",
		"purpose":   "vehicle",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var loan api.LoanDTO
	decodeBody(t, resp, &loan)
	assert.Equal(t, "pending", loan.Status)

	resp = doJSON(t, http.MethodPut, server.URL+"/api/loans/"+loan.ID, map[string]any{
		"status": "approved",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &loan)
	assert.Equal(t, "approved", loan.Status)

	got, err := bank.GetAccount(string(account.ID))
	require.NoError(t, err)
	assert.Equal(t, "500", got.Balance.String())
}

func TestAPI_UpdateLoan_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/loans/missing", map[string]any{
		"status": "approved",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_CreateCredit_UnknownAccount(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/credits", map[string]any{
		"accountId":  "missing",
		"amount":     50,
		"creditType": "personal",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

func TestAPI_Login_HappyPath(t *testing.T) {
	// GIVEN: an active account
	// WHEN: logging in with the account number and password
	// THEN: a token is issued and /api/me resolves it back to the account

	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 100)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", map[string]any{
		"accountNumber": "BOA-0000000001",
		"password":      "secret",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login api.LoginResponse
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, string(account.ID), login.Account.ID)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/me", nil, login.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me api.AccountDTO
	decodeBody(t, resp, &me)
	assert.Equal(t, string(account.ID), me.ID)
}

func TestAPI_Login_Rejections(t *testing.T) {
	server, bank := newTestServer(t)
	account := seedAccount(t, bank, "BOA-0000000001", 0)

	// Wrong password and unknown account look identical.
	for _, body := range []map[string]any{
		{"accountNumber": "BOA-0000000001", "password": "wrong"},
		{"accountNumber": "BOA-9999999999", "password": "secret"},
	} {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	// Inactive accounts cannot log in.
	inactive := ledger.AccountInactive
	_, err := bank.UpdateAccount(context.Background(), account.ID, ledger.AccountPatch{Status: &inactive})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", map[string]any{
		"accountNumber": "BOA-0000000001",
		"password":      "secret",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Me_RequiresToken(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, server.URL+"/api/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

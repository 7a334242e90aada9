package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gitKrishh/finance-tracker/internal/config"
	"github.com/gitKrishh/finance-tracker/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT: config.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			Issuer:           "finance-tracker-test",
			AccessTTLMinutes: 15,
			RefreshTTLHours:  240,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return SetupRouter(cfg, db, logger)
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	// non-JSON bodies (file exports) simply leave the envelope zero
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func register(t *testing.T, r *gin.Engine, name, email, password string) {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"fullName": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t)
	w, _ := do(t, r, http.MethodGet, "/api/v1/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterLoginEnvelope(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")

	// sanitized user: no password or refresh token on any read path
	w, env := do(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": "alice@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, env.StatusCode)
	require.True(t, env.Success)
	require.NotContains(t, string(env.Data), "password")
	require.NotContains(t, string(env.Data), "passwordHash")

	// token cookies set for cookie transport
	cookies := w.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
		require.True(t, c.HttpOnly)
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
}

func TestDuplicateRegistration(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")

	w, env := do(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"fullName": "Alice Again", "email": "alice@example.com", "password": "password2",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.False(t, env.Success)
}

func TestLoginFailures(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")

	w, _ := do(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": "nobody@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{
		"/api/v1/transactions",
		"/api/v1/transactions/stats",
		"/api/v1/transactions/reports",
	} {
		w, env := do(t, r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
		require.False(t, env.Success, path)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")
	tok := login(t, r, "alice@example.com", "password1")

	w, env := do(t, r, http.MethodPost, "/api/v1/transactions", tok, gin.H{
		"description": "Groceries",
		"amount":      42.5,
		"type":        "expense",
		"category":    "Food",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID     uint    `json:"id"`
		Amount float64 `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, 42.5, created.Amount)

	// round trip
	w, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", created.ID), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "Groceries")

	// partial update
	w, env = do(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/transactions/%d", created.ID), tok, gin.H{
		"amount": 50,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, 50.0, updated.Amount)
	require.Equal(t, "Groceries", updated.Description)

	// delete returns the id
	w, env = do(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/transactions/%d", created.ID), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), fmt.Sprintf("%d", created.ID))

	w, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", created.ID), tok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnershipMaskedAsNotFound(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")
	register(t, r, "Bob", "bob@example.com", "password2")
	aliceTok := login(t, r, "alice@example.com", "password1")
	bobTok := login(t, r, "bob@example.com", "password2")

	_, env := do(t, r, http.MethodPost, "/api/v1/transactions", aliceTok, gin.H{
		"description": "Rent", "amount": 900, "type": "expense", "category": "Housing",
	})
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	path := fmt.Sprintf("/api/v1/transactions/%d", created.ID)
	w, _ := do(t, r, http.MethodGet, path, bobTok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodPatch, path, bobTok, gin.H{"amount": 1})
	require.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodDelete, path, bobTok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsAndCategorySummary(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")
	tok := login(t, r, "alice@example.com", "password1")

	for _, tx := range []gin.H{
		{"description": "Food", "amount": 100, "type": "expense", "category": "Food"},
		{"description": "Food", "amount": 50, "type": "expense", "category": "Food"},
		{"description": "Salary", "amount": 500, "type": "income", "category": "Salary"},
	} {
		w, _ := do(t, r, http.MethodPost, "/api/v1/transactions", tok, tx)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := do(t, r, http.MethodGet, "/api/v1/transactions/stats", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalIncome  float64 `json:"totalIncome"`
		TotalExpense float64 `json:"totalExpense"`
		Balance      float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	require.Equal(t, 500.0, stats.TotalIncome)
	require.Equal(t, 150.0, stats.TotalExpense)
	require.Equal(t, 350.0, stats.Balance)

	w, env = do(t, r, http.MethodGet, "/api/v1/transactions/summary/categories", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var breakdown []struct {
		Category    string  `json:"category"`
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &breakdown))
	require.Len(t, breakdown, 1)
	require.Equal(t, "Food", breakdown[0].Category)
	require.Equal(t, 150.0, breakdown[0].TotalAmount)
}

func TestReportsValidation(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")
	tok := login(t, r, "alice@example.com", "password1")

	w, _ := do(t, r, http.MethodGet, "/api/v1/transactions/reports", tok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/transactions/reports?startDate=2025-01-01", tok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(t, r,
		http.MethodGet, "/api/v1/transactions/reports?startDate=2025-01-01&endDate=2025-01-31", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "trend")
	require.Contains(t, string(env.Data), "byCategory")
	require.Contains(t, string(env.Data), "summary")
}

func TestLogoutIdempotent(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")
	tok := login(t, r, "alice@example.com", "password1")

	// the access token stays valid for its TTL, so both calls succeed
	w, _ := do(t, r, http.MethodPost, "/api/v1/users/logout", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/v1/users/logout", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")

	w, env := do(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": "alice@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var loginData struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &loginData))

	// no access token needed: the refresh token is the credential
	w, env = do(t, r, http.MethodPost, "/api/v1/users/refresh-token", "", gin.H{
		"refreshToken": loginData.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	require.NotEmpty(t, refreshed.RefreshToken)

	// the old refresh token was rotated out and no longer matches
	w, _ = do(t, r, http.MethodPost, "/api/v1/users/refresh-token", "", gin.H{
		"refreshToken": loginData.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateAccountAndChangePassword(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")
	tok := login(t, r, "alice@example.com", "password1")

	w, env := do(t, r, http.MethodPatch, "/api/v1/users/update-account", tok, gin.H{
		"fullName": "Alice Cooper", "email": "cooper@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "Alice Cooper")

	w, _ = do(t, r, http.MethodPatch, "/api/v1/users/update-account", tok, gin.H{
		"fullName": "", "email": "cooper@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/users/change-password", tok, gin.H{
		"oldPassword": "wrong", "newPassword": "password2",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/users/change-password", tok, gin.H{
		"oldPassword": "password1", "newPassword": "password2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	login(t, r, "cooper@example.com", "password2")
}

func TestExportCSV(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Alice", "alice@example.com", "password1")
	tok := login(t, r, "alice@example.com", "password1")

	w, _ := do(t, r, http.MethodPost, "/api/v1/transactions", tok, gin.H{
		"description": "Groceries", "amount": 42.5, "type": "expense", "category": "Food",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/transactions/export/csv", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, w.Body.String(), "Groceries")
	require.Contains(t, w.Body.String(), "42.50")
}

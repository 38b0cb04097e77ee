package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/helm-collect/config"
	"github.com/yourusername/helm-collect/middleware"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret: testSecret,
		SessionTTL:    time.Hour,
		DebtorLinkTTL: 30 * 24 * time.Hour,
		BaseURL:       "https://helm.example",
	}
}

func createUser(t *testing.T, s *store.Store, username, password, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: string(hash), Role: role}
	require.NoError(t, s.CreateUser(context.Background(), &user))
	return user
}

func createClient(t *testing.T, s *store.Store, name string) models.Client {
	t.Helper()
	client := models.Client{BusinessType: "Ltd", BusinessName: name}
	require.NoError(t, s.CreateClient(context.Background(), &client))
	return client
}

func createCase(t *testing.T, s *store.Store, clientID uint, first, last string) models.Case {
	t.Helper()
	c := models.Case{ClientID: clientID, DebtorFirst: first, DebtorLast: last}
	require.NoError(t, s.CreateCase(context.Background(), &c))
	return c
}

func addMoney(t *testing.T, s *store.Store, caseID uint, typ, amount string, recoverable bool) {
	t.Helper()
	m := models.Money{CaseID: caseID, Type: typ, Amount: decimal.RequireFromString(amount), Recoverable: recoverable}
	require.NoError(t, s.CreateMoney(context.Background(), &m))
}

func sessionCookie(t *testing.T, user models.User) *http.Cookie {
	t.Helper()
	token, err := middleware.GenerateToken(user.Principal(), testSecret, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

// staffRouter mounts routes behind the session middleware, loading
// principals straight from the store.
func staffRouter(s *store.Store) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", middleware.SessionAuthMiddleware(testSecret, s))
	return router, group
}

func postForm(router http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(router http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router http.Handler, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// flashOf returns the flash message set by the response, if any.
func flashOf(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge >= 0 {
			msg, _ := url.QueryUnescape(c.Value)
			return msg
		}
	}
	return ""
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func httpRecorder(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

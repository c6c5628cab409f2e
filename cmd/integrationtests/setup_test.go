package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-engine/internal/auth"
	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/deposits"
	"auction-engine/internal/events"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var startOfDay = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

// TestApp is the full HTTP stack over the in-memory ledger
type TestApp struct {
	Router   *gin.Engine
	Clock    *utils.ManualClock
	Balances *deposits.StaticBalances
	Tokens   *auth.TokenManager
}

// SetupTestApp initializes the router with in-memory repository for integration testing.
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &TestApp{
		Clock:    utils.NewManualClock(startOfDay),
		Balances: deposits.NewStaticBalances(nil),
		Tokens:   auth.NewTokenManager("integration-secret", time.Hour),
	}
	recorder := events.NewRecorder(100, events.LogPublisher{})
	service := bidding.NewBiddingService(repository.NewMemoryRepo(), app.Balances, recorder, app.Clock, bidding.DefaultPolicy())
	app.Router = server.SetupRouter(service, recorder, app.Tokens, nil)
	return app
}

// Token issues a token for userID, funding customers with a deposit
func (a *TestApp) Token(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	if role == model.RoleCustomer {
		a.Balances.Set(userID, decimal.NewFromInt(1000))
	}
	token, err := a.Tokens.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

// Response is the standard JSON envelope
type Response struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Details map[string]any  `json:"details"`
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func (a *TestApp) ExecuteRequestAndParse(t *testing.T, method, url string, body any, token string) (Response, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	a.Router.ServeHTTP(w, req)

	var resp Response
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Decode unmarshals the data field of resp into out
func Decode(t *testing.T, resp Response, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

// OpenAuction creates and activates an auction through the operator API
func (a *TestApp) OpenAuction(t *testing.T, body map[string]any) string {
	t.Helper()
	staff := a.Token(t, "staff", model.RoleStaff)

	if _, ok := body["start_time"]; !ok {
		body["start_time"] = a.Clock.Now().Format(time.RFC3339)
	}
	if _, ok := body["end_time"]; !ok {
		body["end_time"] = a.Clock.Now().Add(time.Hour).Format(time.RFC3339)
	}

	resp, w := a.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", body, staff)
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)
	var created model.Auction
	Decode(t, resp, &created)

	resp, w = a.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+created.AuctionID+"/activate", nil, staff)
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	return created.AuctionID
}

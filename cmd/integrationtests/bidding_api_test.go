package integrationtests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	model "auction-engine/internal/models"
	"auction-engine/services/bidding/helpers"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	app := SetupTestApp(t)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// PlaceBidHandler Tests
func TestPlaceBid(t *testing.T) {
	tests := []struct {
		name       string
		request    any
		anonymous  bool
		wantStatus int
		wantMsg    string
	}{
		{name: "Valid_Bid", request: map[string]any{"amount": 150}, wantStatus: http.StatusCreated, wantMsg: "bid recorded successfully"},
		{name: "Below_Start_Price", request: map[string]any{"amount": 50}, wantStatus: http.StatusConflict, wantMsg: "bid amount too low"},
		{name: "Sub_Cent_Amount", request: map[string]any{"amount": 150.004}, wantStatus: http.StatusBadRequest, wantMsg: "invalid bid details"},
		{name: "Invalid_JSON", request: []byte("{amount: 'missing quotes'}"), wantStatus: http.StatusBadRequest, wantMsg: "invalid request payload"},
		{name: "Anonymous", request: map[string]any{"amount": 150}, anonymous: true, wantStatus: http.StatusUnauthorized, wantMsg: "authentication required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := SetupTestApp(t)
			auctionID := app.OpenAuction(t, map[string]any{"item_id": "item1", "start_price": 100})

			token := ""
			if !tt.anonymous {
				token = app.Token(t, "user1", model.RoleCustomer)
			}
			resp, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", tt.request, token)
			require.Equal(t, tt.wantStatus, w.Code)
			require.Equal(t, tt.wantMsg, resp.Message)

			if tt.wantStatus == http.StatusCreated {
				var bid helpers.BidResponse
				Decode(t, resp, &bid)
				require.Equal(t, "user1", bid.UserID)
				require.Equal(t, "150.00", bid.Amount)
				require.NotEmpty(t, bid.BidID)
				_, err := time.Parse(time.RFC3339, bid.CreatedAt)
				require.NoError(t, err)
			}
		})
	}
}

func TestStaffCannotBid(t *testing.T) {
	app := SetupTestApp(t)
	auctionID := app.OpenAuction(t, map[string]any{"item_id": "item1", "start_price": 100})

	staff := app.Token(t, "staff", model.RoleStaff)
	resp, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{"amount": 150}, staff)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "role is not allowed to bid", resp.Message)
}

func TestOperatorRoutesRequireOperator(t *testing.T) {
	app := SetupTestApp(t)
	customer := app.Token(t, "user1", model.RoleCustomer)
	body := map[string]any{
		"item_id":     "item1",
		"start_price": 100,
		"start_time":  startOfDay.Format(time.RFC3339),
		"end_time":    startOfDay.Add(time.Hour).Format(time.RFC3339),
	}

	_, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", body, customer)
	require.Equal(t, http.StatusForbidden, w.Code)

	_, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions", body, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProxyBiddingFlow(t *testing.T) {
	app := SetupTestApp(t)
	auctionID := app.OpenAuction(t, map[string]any{"item_id": "item1", "start_price": 100})
	alice := app.Token(t, "alice", model.RoleCustomer)
	bob := app.Token(t, "bob", model.RoleCustomer)

	resp, w := app.ExecuteRequestAndParse(t, http.MethodPut, "/auctions/"+auctionID+"/proxy", map[string]any{"max_amount": 500}, alice)
	require.Equal(t, http.StatusOK, w.Code, resp.Error)

	resp, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{"amount": 200}, bob)
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var state model.AuctionState
	Decode(t, resp, &state)
	require.Equal(t, "alice", *state.LastBidderID)
	require.Equal(t, "202", state.CurrentBid.Decimal.String())
	require.Equal(t, 3, state.BidCount)

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/bids", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var bids []helpers.BidResponse
	Decode(t, resp, &bids)
	require.Len(t, bids, 3)
	require.Equal(t, "PROXY", bids[2].Source)

	resp, w = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID+"/events", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var recent []model.BidEvent
	Decode(t, resp, &recent)
	require.Len(t, recent, 3)
	require.Equal(t, "alice", recent[2].LastBidderID)
}

func TestLowBidCarriesMinimum(t *testing.T) {
	app := SetupTestApp(t)
	auctionID := app.OpenAuction(t, map[string]any{"item_id": "item1", "start_price": 100})
	token := app.Token(t, "user1", model.RoleCustomer)

	_, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{"amount": "180"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	resp, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{"amount": "175"}, token)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "180.00", resp.Details["minimum"])
}

func TestBuyNowFlow(t *testing.T) {
	app := SetupTestApp(t)
	auctionID := app.OpenAuction(t, map[string]any{"item_id": "item1", "start_price": 100, "buy_now_price": 1000})
	buyer := app.Token(t, "buyer", model.RoleCustomer)
	late := app.Token(t, "late", model.RoleCustomer)

	resp, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/buy-now", nil, buyer)
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)
	var purchase helpers.PurchaseResponse
	Decode(t, resp, &purchase)
	require.Equal(t, "buyer", purchase.WinnerID)
	require.Equal(t, "1000.00", purchase.Bid.Amount)

	resp, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{"amount": 1500}, late)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "auction has ended", resp.Message)

	resp, _ = app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID, nil, "")
	var state model.AuctionState
	Decode(t, resp, &state)
	require.Equal(t, model.AuctionStatusEnded, state.Status)
	require.Equal(t, "buyer", *state.WinnerID)
}

func TestAntiSnipeExtension(t *testing.T) {
	app := SetupTestApp(t)
	auctionID := app.OpenAuction(t, map[string]any{
		"item_id":           "item1",
		"start_price":       100,
		"end_time":          startOfDay.Add(10 * time.Minute).Format(time.RFC3339),
		"allow_auto_extend": true,
	})
	token := app.Token(t, "user1", model.RoleCustomer)

	app.Clock.Advance(7 * time.Minute)
	_, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{"amount": 150}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	resp, _ := app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/"+auctionID, nil, "")
	var state model.AuctionState
	Decode(t, resp, &state)
	require.Equal(t, 1, state.ExtendedCount)
	require.True(t, state.EndTime.Equal(startOfDay.Add(15*time.Minute)))
}

func TestForceEnd(t *testing.T) {
	app := SetupTestApp(t)
	auctionID := app.OpenAuction(t, map[string]any{"item_id": "item1", "start_price": 100})
	token := app.Token(t, "user1", model.RoleCustomer)
	admin := app.Token(t, "admin", model.RoleAdmin)

	_, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{"amount": 150}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	resp, w := app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/"+auctionID+"/end", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	var ended model.Auction
	Decode(t, resp, &ended)
	require.Equal(t, model.AuctionStatusEnded, ended.Status)
	require.Equal(t, "user1", *ended.WinnerID)
}

func TestUnknownAuction(t *testing.T) {
	app := SetupTestApp(t)
	token := app.Token(t, "user1", model.RoleCustomer)

	_, w := app.ExecuteRequestAndParse(t, http.MethodGet, "/auctions/nope", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	_, w = app.ExecuteRequestAndParse(t, http.MethodPost, "/auctions/nope/bids", map[string]any{"amount": 150}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

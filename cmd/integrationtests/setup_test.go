package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memorabilia-auction/internal/auctionclient"
	bidding "memorabilia-auction/internal/biddingService"
	"memorabilia-auction/internal/devstore"
	"memorabilia-auction/internal/metrics"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/internal/repository"
	"memorabilia-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Stack is a running development store plus a client pointed at it
type Stack struct {
	Store   *httptest.Server
	Service *devstore.StoreService
	Client  *auctionclient.Client
}

// SetupStack starts an in-memory auction store and a client for it
func SetupStack(t *testing.T) *Stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := devstore.NewStoreService(repository.NewMemoryRepo(), nil)
	srv := httptest.NewServer(devstore.SetupRouter(svc))
	t.Cleanup(srv.Close)

	client := auctionclient.New(srv.URL, auctionclient.WithTimeout(5*time.Second))
	return &Stack{Store: srv, Service: svc, Client: client}
}

// SeedAuction creates a live auction with no bids and returns its id
func (s *Stack) SeedAuction(t *testing.T, startingPrice int64) string {
	t.Helper()

	now := time.Now().UTC()
	id, err := s.Service.CreateAuction(context.Background(), models.NewAuction{
		Title:         "Signed Jersey",
		Description:   "Game worn",
		StartingPrice: decimal.NewFromInt(startingPrice),
		StartTime:     now.Add(-time.Minute),
		EndTime:       now.Add(time.Hour),
		Tags:          models.DefaultTags(),
	})
	require.NoError(t, err)
	return id
}

// OpenDetail opens a fresh detail view on its own navigator, like a new browser tab
func (s *Stack) OpenDetail(t *testing.T, auctionID string) *bidding.Detail {
	t.Helper()

	nav := bidding.NewNavigator(s.Client, nil)
	t.Cleanup(nav.Leave)

	detail, err := nav.Open(context.Background(), auctionID)
	require.NoError(t, err)
	return detail
}

// SetupViewRouter builds the view server against the stack's store
func (s *Stack) SetupViewRouter(t *testing.T) (*gin.Engine, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	client := auctionclient.New(s.Store.URL, auctionclient.WithMetrics(collector))
	nav := bidding.NewNavigator(client, collector)
	t.Cleanup(nav.Leave)

	return server.SetupRouter(nav, reg), reg
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Code != http.StatusFound && len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if data, ok := resp["data"].(map[string]any); ok {
			resp = data
		}
	}

	return resp, w
}

func floor(t *testing.T, detail *bidding.Detail) string {
	t.Helper()

	f, err := detail.Session.PriceFloor()
	require.NoError(t, err)
	return f.StringFixed(2)
}

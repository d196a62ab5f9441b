package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"assetview/internal/view"
	"assetview/pkg/integrations/wmPubsub"
	"assetview/pkg/types/assets"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeQuerier struct {
	mu          sync.Mutex
	states      map[string]view.LoadState
	loads       []string
	invalidated []string
}

func (f *fakeQuerier) Load(_ context.Context, id string) view.LoadState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, id)
	state, ok := f.states[id]
	if !ok {
		return view.Loading()
	}
	return state
}

func (f *fakeQuerier) Invalidate(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.states[id]; !ok {
		return false
	}
	delete(f.states, id)
	f.invalidated = append(f.invalidated, id)
	return true
}

func history(n int) []assets.HistoryPoint {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]assets.HistoryPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, assets.HistoryPoint{Date: start.AddDate(0, 0, i), PriceUsd: "40000.5"})
	}
	return points
}

type ControllerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	querier *fakeQuerier
}

func (s *ControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.querier = &fakeQuerier{states: map[string]view.LoadState{
		"bitcoin": view.Loaded(&assets.ViewModel{
			Asset: assets.Summary{
				ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Rank: 1,
				PriceUsd: "50000.456", MarketCapUsd: "900000000000", Supply: "19000000",
			},
			History: history(35),
		}),
		"nope": view.Failed(&assets.NetworkError{URL: "http://api/assets/nope", StatusCode: http.StatusNotFound}),
	}}

	ctrl, err := New(WithAssetQuerier(s.querier), WithLogger(discardLogger))
	s.Require().NoError(err)

	s.router = gin.New()
	api := s.router.Group("/api")
	api.GET("/assets/:id", ctrl.GetAsset)
	api.GET("/assets/:id/chart", ctrl.GetAssetChart)
	api.DELETE("/assets/:id/query", ctrl.InvalidateAsset)
}

func (s *ControllerTestSuite) do(method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ControllerTestSuite) TestGetAsset_Loaded() {
	w := s.do(http.MethodGet, "/api/assets/bitcoin", nil)
	s.Equal(http.StatusOK, w.Code)

	var body struct {
		Status  string                `json:"status"`
		Asset   assets.Summary        `json:"asset"`
		History []assets.HistoryPoint `json:"history"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("loaded", body.Status)
	s.Equal("Bitcoin", body.Asset.Name)
	s.Len(body.History, 30)
}

func (s *ControllerTestSuite) TestGetAsset_Failed() {
	w := s.do(http.MethodGet, "/api/assets/nope", nil)
	s.Equal(http.StatusBadGateway, w.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("failed", body["status"])
	s.Contains(body["error"], "404")
	s.NotContains(body, "asset")
}

func (s *ControllerTestSuite) TestGetAsset_StillLoading() {
	w := s.do(http.MethodGet, "/api/assets/ethereum", nil)
	s.Equal(http.StatusAccepted, w.Code)
	s.JSONEq(`{"status":"loading"}`, w.Body.String())
}

func (s *ControllerTestSuite) TestGetAsset_InvalidID() {
	w := s.do(http.MethodGet, "/api/assets/%20", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	var apiErr APIError
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	s.Equal("invalid asset id", apiErr.Error)
	s.Empty(s.querier.loads)
}

func (s *ControllerTestSuite) TestGetAssetChart() {
	w := s.do(http.MethodGet, "/api/assets/bitcoin/chart", http.Header{"Accept-Language": {"de-DE"}})
	s.Equal(http.StatusOK, w.Code)

	var chart view.Chart
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &chart))
	s.Equal(view.ChartSeries, chart.Series)
	s.Require().Len(chart.Points, 30)
	s.Equal("6.1.2026", chart.Points[0].Label)
	s.Equal("$40000.50", chart.Points[0].Tooltip)
}

func (s *ControllerTestSuite) TestGetAssetChart_Failed() {
	w := s.do(http.MethodGet, "/api/assets/nope/chart", nil)
	s.Equal(http.StatusBadGateway, w.Code)

	var apiErr APIError
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	s.Equal("failed to load asset", apiErr.Error)
	s.NotEmpty(apiErr.Details)
}

func (s *ControllerTestSuite) TestGetAssetChart_StillLoading() {
	w := s.do(http.MethodGet, "/api/assets/ethereum/chart", nil)
	s.Equal(http.StatusGatewayTimeout, w.Code)
}

func (s *ControllerTestSuite) TestInvalidateAsset() {
	w := s.do(http.MethodDelete, "/api/assets/bitcoin/query", nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal([]string{"bitcoin"}, s.querier.invalidated)

	w = s.do(http.MethodDelete, "/api/assets/bitcoin/query", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(WithLogger(discardLogger))
	assert.True(t, errors.Is(err, ErrNilAssetQuerier))

	_, err = New(WithAssetQuerier(&fakeQuerier{}))
	assert.True(t, errors.Is(err, ErrNilLogger))
}

func TestSSEAssetStates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ps, err := wmPubsub.New(
		wmPubsub.WithContext(t.Context()),
		wmPubsub.WithLogger(discardLogger),
		wmPubsub.WithTopic("asset-state"),
	)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/api/assets/stream", SSEAssetStates(ps))
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()

	lines := make(chan []string, 1)
	go func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/assets/stream?id=bitcoin", nil)
		if !assert.NoError(t, err) {
			return
		}
		resp, err := http.DefaultClient.Do(req)
		if !assert.NoError(t, err) {
			return
		}
		defer resp.Body.Close()
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		var got []string
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				break
			}
			got = append(got, line)
		}
		lines <- got
	}()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case got := <-lines:
			require.Len(t, got, 2)
			assert.Equal(t, "event:state", got[0])
			assert.True(t, strings.HasPrefix(got[1], "data:"))
			assert.Contains(t, got[1], `"id":"bitcoin"`)
			return
		case <-ticker.C:
			require.NoError(t, ps.Publish([]byte(`{"id":"ethereum","status":"loading"}`)))
			require.NoError(t, ps.Publish([]byte(`{"id":"bitcoin","status":"loaded"}`)))
		case <-ctx.Done():
			t.Fatal("no state event received")
		}
	}
}

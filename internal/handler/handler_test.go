package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "assetview/docs"
	"assetview/internal/view"
	"assetview/pkg/types/assets"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubQuerier struct{}

func (stubQuerier) Load(_ context.Context, id string) view.LoadState {
	return view.Loaded(&assets.ViewModel{Asset: assets.Summary{ID: id, Name: "Bitcoin", Symbol: "BTC", Rank: 1}})
}

func (stubQuerier) Invalidate(string) bool { return true }

func setup(t *testing.T, opts ...Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	base := []Option{WithEngine(engine), WithAssetQuerier(stubQuerier{}), WithLogger(discardLogger)}
	h, err := New(append(base, opts...)...)
	require.NoError(t, err)
	require.NoError(t, h.Setup())
	return engine
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(WithAssetQuerier(stubQuerier{}), WithLogger(discardLogger))
	assert.ErrorIs(t, err, ErrNilEngine)

	_, err = New(WithEngine(gin.New()), WithLogger(discardLogger))
	assert.ErrorIs(t, err, ErrNilAssetQuerier)

	_, err = New(WithEngine(gin.New()), WithAssetQuerier(stubQuerier{}))
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestSetup_AssetRoutes(t *testing.T) {
	engine := setup(t)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/assets/bitcoin").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/assets/bitcoin/chart").Code)
	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/assets/bitcoin/query").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/swagger/doc.json").Code)
}

func TestSetup_Swagger(t *testing.T) {
	engine := setup(t, WithSwagger())

	w := serve(engine, http.MethodGet, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/assets/{id}"`)
	assert.Contains(t, w.Body.String(), "Asset Detail API")

	w = serve(engine, http.MethodGet, "/swagger/index.html")
	assert.Equal(t, http.StatusOK, w.Code)
}

package handler

import (
	"context"
	"errors"
	"log/slog"

	"assetview/internal/view"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

var (
	ErrNilEngine       = errors.New("engine is required")
	ErrNilAssetQuerier = errors.New("asset querier is required")
	ErrNilLogger       = errors.New("logger is required")
)

// AssetLoader waits for the detail of one asset.
type AssetLoader interface {
	Load(ctx context.Context, id string) view.LoadState
}

type WebHandler struct {
	engine       *gin.Engine
	assets       AssetLoader
	logger       *slog.Logger
	renderer     *Renderer
	templatesDir string
	locale       language.Tag
	listPath     string
}

type Option func(*WebHandler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *WebHandler) {
		h.engine = engine
	}
}

func WithAssetLoader(l AssetLoader) Option {
	return func(h *WebHandler) {
		h.assets = l
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *WebHandler) {
		h.logger = l
	}
}

func WithTemplatesDir(dir string) Option {
	return func(h *WebHandler) {
		h.templatesDir = dir
	}
}

// WithDefaultLocale sets the locale used when Accept-Language matches nothing.
func WithDefaultLocale(tag language.Tag) Option {
	return func(h *WebHandler) {
		h.locale = tag
	}
}

// WithListPath sets where the back link points.
func WithListPath(path string) Option {
	return func(h *WebHandler) {
		h.listPath = path
	}
}

func New(opts ...Option) (*WebHandler, error) {
	h := &WebHandler{
		templatesDir: "./internal/ui/templates",
		locale:       language.AmericanEnglish,
		listPath:     "/",
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.engine == nil {
		return nil, ErrNilEngine
	}
	if h.assets == nil {
		return nil, ErrNilAssetQuerier
	}
	if h.logger == nil {
		return nil, ErrNilLogger
	}
	h.renderer = NewRenderer(h.templatesDir)
	return h, nil
}

func (h *WebHandler) Setup() error {
	detail := NewAssetDetailHandler(h.renderer, h.assets, h.logger, h.locale, h.listPath)

	h.engine.GET("/assets/:id", detail.Index)
	h.engine.GET("/partials/assets/:id/detail", detail.Detail)

	h.engine.GET("/api/health", Health)

	return nil
}

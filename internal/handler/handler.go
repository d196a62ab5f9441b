package handler

import (
	"errors"
	"log/slog"

	"assetview/internal/controller"
	"assetview/pkg/types/pubsub"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/text/language"
)

var (
	ErrNilEngine       = errors.New("engine is required")
	ErrNilAssetQuerier = errors.New("asset querier is required")
	ErrNilLogger       = errors.New("logger is required")
)

type Handler struct {
	engine   *gin.Engine
	assets   controller.AssetQuerier
	logger   *slog.Logger
	stateSub pubsub.Subscriber
	locale   language.Tag
	swagger  bool
}

func (h *Handler) IsValid() error {
	if h.engine == nil {
		return ErrNilEngine
	}
	if h.assets == nil {
		return ErrNilAssetQuerier
	}
	if h.logger == nil {
		return ErrNilLogger
	}
	return nil
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithAssetQuerier(q controller.AssetQuerier) Option {
	return func(h *Handler) {
		h.assets = q
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithStateSubscriber enables the SSE stream of query transitions.
func WithStateSubscriber(sub pubsub.Subscriber) Option {
	return func(h *Handler) {
		h.stateSub = sub
	}
}

func WithDefaultLocale(tag language.Tag) Option {
	return func(h *Handler) {
		h.locale = tag
	}
}

// WithSwagger serves the registered Swagger spec and UI under /swagger.
func WithSwagger() Option {
	return func(h *Handler) {
		h.swagger = true
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{locale: language.AmericanEnglish}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrl, err := controller.New(
		controller.WithAssetQuerier(h.assets),
		controller.WithLogger(h.logger),
		controller.WithDefaultLocale(h.locale),
	)
	if err != nil {
		return err
	}

	if h.swagger {
		h.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := h.engine.Group("/api")

	assets := api.Group("/assets")
	if h.stateSub != nil {
		assets.GET("/stream", controller.SSEAssetStates(h.stateSub))
	}
	assets.GET("/:id", ctrl.GetAsset)
	assets.GET("/:id/chart", ctrl.GetAssetChart)
	assets.DELETE("/:id/query", ctrl.InvalidateAsset)

	return nil
}

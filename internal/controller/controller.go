package controller

import (
	"context"
	"log/slog"

	"assetview/internal/view"

	"golang.org/x/text/language"
)

// AssetQuerier is the part of the asset detail service the API needs.
type AssetQuerier interface {
	Load(ctx context.Context, id string) view.LoadState
	Invalidate(id string) bool
}

type Controller struct {
	assets AssetQuerier
	logger *slog.Logger
	locale language.Tag
}

type Option func(*Controller)

func WithAssetQuerier(q AssetQuerier) Option {
	return func(c *Controller) {
		c.assets = q
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithDefaultLocale sets the locale used when Accept-Language matches nothing.
func WithDefaultLocale(tag language.Tag) Option {
	return func(c *Controller) {
		c.locale = tag
	}
}

func (c *Controller) IsValid() error {
	if c.assets == nil {
		return ErrNilAssetQuerier
	}
	if c.logger == nil {
		return ErrNilLogger
	}
	return nil
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{locale: language.AmericanEnglish}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.IsValid(); err != nil {
		return nil, err
	}
	return c, nil
}

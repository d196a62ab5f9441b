package handler

import (
	"log/slog"
	"net/http"

	"assetview/internal/view"
	"assetview/pkg/types/assets"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type AssetDetailHandler struct {
	renderer *Renderer
	assets   AssetLoader
	logger   *slog.Logger
	locale   language.Tag
	listPath string
}

func NewAssetDetailHandler(renderer *Renderer, loader AssetLoader, logger *slog.Logger, locale language.Tag, listPath string) *AssetDetailHandler {
	return &AssetDetailHandler{
		renderer: renderer,
		assets:   loader,
		logger:   logger,
		locale:   locale,
		listPath: listPath,
	}
}

type AssetPageData struct {
	Title     string
	ID        string
	Error     string
	ListPath  string
	BackLabel string
}

type AssetDetailData struct {
	ID        string
	Lang      string
	Status    view.Status
	Detail    *view.Detail
	Error     string
	ListPath  string
	BackLabel string
}

// Index renders the page shell in the loading state. The detail partial is
// requested by the page and waits for the data.
func (h *AssetDetailHandler) Index(c *gin.Context) {
	id := c.Param("id")
	data := AssetPageData{
		Title:     "Asset " + id,
		ID:        id,
		ListPath:  h.listPath,
		BackLabel: view.BackLabel,
	}

	if err := assets.ValidateIdentifier(id); err != nil {
		data.Error = err.Error()
		h.renderer.HTML(c, http.StatusBadRequest, "asset", data)
		return
	}

	h.renderer.HTML(c, http.StatusOK, "asset", data)
}

func (h *AssetDetailHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	data := AssetDetailData{
		ID:        id,
		ListPath:  h.listPath,
		BackLabel: view.BackLabel,
	}

	f := view.NewFormatter(view.MatchLocale(c.GetHeader("Accept-Language"), h.locale))
	data.Lang = f.Locale().String()

	state := h.assets.Load(c.Request.Context(), id)
	data.Status = state.Status()

	switch {
	case state.IsLoaded():
		vm, _ := state.ViewModel()
		detail := view.NewDetail(vm, f)
		data.Detail = &detail
	case state.IsFailed():
		data.Error = state.Message()
		h.logger.Warn("asset detail failed", "id", id, "error", data.Error)
	}

	h.renderer.Partial(c, http.StatusOK, "asset_detail", data)
}

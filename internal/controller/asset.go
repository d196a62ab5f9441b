package controller

import (
	"net/http"

	"assetview/internal/view"
	"assetview/pkg/types/assets"

	"github.com/gin-gonic/gin"
)

// GetAsset godoc
// @Summary Get asset detail
// @Description Fetch the CoinCap summary and last 30 days of history for an asset
// @Tags assets
// @Produce json
// @Param id path string true "CoinCap asset id, e.g. bitcoin"
// @Success 200 {object} view.LoadState
// @Success 202 {object} view.LoadState "still loading when the request ended"
// @Failure 400 {object} APIError
// @Failure 502 {object} view.LoadState
// @Router /api/assets/{id} [get]
func (c *Controller) GetAsset(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := assets.ValidateIdentifier(id); err != nil {
		badRequestWithDetails(ctx, "invalid asset id", err.Error())
		return
	}

	state := c.assets.Load(ctx.Request.Context(), id)
	switch {
	case state.IsLoaded():
		ctx.JSON(http.StatusOK, state)
	case state.IsFailed():
		c.logger.Warn("asset detail request failed", "id", id, "error", state.Message())
		ctx.JSON(http.StatusBadGateway, state)
	default:
		ctx.JSON(http.StatusAccepted, state)
	}
}

// GetAssetChart godoc
// @Summary Get asset price chart
// @Description Chart points for the last 30 days, labels formatted for the request locale
// @Tags assets
// @Produce json
// @Param id path string true "CoinCap asset id"
// @Param Accept-Language header string false "Locale for labels"
// @Success 200 {object} view.Chart
// @Failure 400 {object} APIError
// @Failure 502 {object} APIError
// @Failure 504 {object} APIError
// @Router /api/assets/{id}/chart [get]
func (c *Controller) GetAssetChart(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := assets.ValidateIdentifier(id); err != nil {
		badRequestWithDetails(ctx, "invalid asset id", err.Error())
		return
	}

	state := c.assets.Load(ctx.Request.Context(), id)
	vm, ok := state.ViewModel()
	if !ok {
		if state.IsFailed() {
			badGateway(ctx, "failed to load asset", state.Message())
			return
		}
		errorResponse(ctx, http.StatusGatewayTimeout, "asset still loading")
		return
	}

	f := view.NewFormatter(view.MatchLocale(ctx.GetHeader("Accept-Language"), c.locale))
	ctx.JSON(http.StatusOK, view.NewChart(vm.History, f))
}

// InvalidateAsset godoc
// @Summary Drop a cached asset query
// @Description Cancels any in-flight fetch for the asset; the next request fetches again
// @Tags assets
// @Param id path string true "CoinCap asset id"
// @Success 204
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/assets/{id}/query [delete]
func (c *Controller) InvalidateAsset(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := assets.ValidateIdentifier(id); err != nil {
		badRequestWithDetails(ctx, "invalid asset id", err.Error())
		return
	}

	if !c.assets.Invalidate(id) {
		notFound(ctx, "no query for asset")
		return
	}
	c.logger.Info("asset query invalidated", "id", id)
	ctx.Status(http.StatusNoContent)
}

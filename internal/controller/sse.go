package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"assetview/pkg/types/pubsub"

	"github.com/gin-gonic/gin"
)

// SSEAssetStates godoc
// @Summary Stream asset query states
// @Description Server-Sent Events endpoint emitting a "state" event on every query transition
// @Tags assets
// @Produce text/event-stream
// @Param id query string false "Only stream events for this asset id"
// @Success 200 {string} string "SSE stream"
// @Router /api/assets/stream [get]
func SSEAssetStates(sub pubsub.Subscriber) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, unsubscribe, err := sub.Subscribe()
		if err != nil {
			errorResponse(c, http.StatusServiceUnavailable, "state stream unavailable")
			return
		}
		defer unsubscribe()

		only := c.Query("id")

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-events:
				if !ok {
					return false
				}
				if only != "" && eventID(msg) != only {
					return true
				}
				c.SSEvent("state", string(msg))
				c.Writer.Flush()
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}

func eventID(msg []byte) string {
	var ev struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil {
		return ""
	}
	return ev.ID
}

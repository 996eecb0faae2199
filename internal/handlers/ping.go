package handlers

import (
	"log"
	"net/http"

	"github.com/cronpulse-dev/cronpulse/internal/heartbeat"
	"github.com/cronpulse-dev/cronpulse/internal/metrics"
	"github.com/gin-gonic/gin"
)

// ReceivePing serves the heartbeat endpoint. No authentication beyond the
// slug itself; responses are plain text so any curl in a crontab can call it.
func ReceivePing(ingestor *heartbeat.Ingestor) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := ingestor.Receive(
			ctx.Request.Context(),
			ctx.Param("slug"),
			ctx.ClientIP(),
			ctx.GetHeader("User-Agent"),
		)

		if err != nil {
			log.Printf("Failed to ingest ping for slug %s: %v", ctx.Param("slug"), err)
			metrics.PingsReceived.WithLabelValues("error").Inc()
			ctx.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}

		switch result {
		case heartbeat.ResultNotFound:
			metrics.PingsReceived.WithLabelValues("not_found").Inc()
			ctx.String(http.StatusNotFound, "Not Found")
		case heartbeat.ResultPausedAck:
			metrics.PingsReceived.WithLabelValues("paused").Inc()
			ctx.String(http.StatusOK, "OK (paused)")
		default:
			metrics.PingsReceived.WithLabelValues("accepted").Inc()
			ctx.String(http.StatusOK, "OK")
		}
	}
}

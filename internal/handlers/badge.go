package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cronpulse-dev/cronpulse/db"
	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const badgeTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20">
  <linearGradient id="a" x2="0" y2="100%%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <rect rx="3" width="%d" height="20" fill="#555"/>
  <rect rx="3" x="%d" width="%d" height="20" fill="%s"/>
  <rect rx="3" width="%d" height="20" fill="url(#a)"/>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%.1f" y="14">%s</text>
    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%.1f" y="14">%s</text>
  </g>
</svg>`

// Badge serves the public status badge. The path parameter carries an
// extension selecting the rendering: <slug>.svg or <slug>.json.
func Badge(ctx *gin.Context) {
	param := ctx.Param("slug")

	switch {
	case strings.HasSuffix(param, ".svg"):
		badgeSVG(ctx, strings.TrimSuffix(param, ".svg"))
	case strings.HasSuffix(param, ".json"):
		badgeJSON(ctx, strings.TrimSuffix(param, ".json"))
	default:
		ctx.Status(http.StatusNotFound)
	}
}

func badgeSVG(ctx *gin.Context, slug string) {
	monitor, ok := findBadgeMonitor(ctx, slug)

	if !ok {
		return
	}

	label := "status"
	value := monitor.Status
	color, exists := types.StatusColors[monitor.Status]

	if !exists {
		color = types.StatusColors[types.StatusNew]
	}

	labelWidth := len(label)*7 + 10
	valueWidth := len(value)*7 + 10
	width := labelWidth + valueWidth
	labelCenter := float64(labelWidth) / 2
	valueCenter := float64(labelWidth) + float64(valueWidth)/2

	svg := fmt.Sprintf(badgeTemplate,
		width,
		width,
		labelWidth, valueWidth, color,
		width,
		labelCenter, label,
		labelCenter, label,
		valueCenter, value,
		valueCenter, value,
	)

	ctx.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	ctx.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

func badgeJSON(ctx *gin.Context, slug string) {
	monitor, ok := findBadgeMonitor(ctx, slug)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"name":      monitor.Name,
		"status":    monitor.Status,
		"last_ping": monitor.LastPingAt,
		"period":    monitor.Period,
		"grace":     monitor.Grace,
	})
}

func findBadgeMonitor(ctx *gin.Context, slug string) (models.Monitor, bool) {
	var monitor models.Monitor

	if err := db.DB.Where("slug = ?", slug).First(&monitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
		} else {
			ctx.Status(http.StatusInternalServerError)
		}
		return models.Monitor{}, false
	}

	return monitor, true
}

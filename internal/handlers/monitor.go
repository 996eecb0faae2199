package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cronpulse-dev/cronpulse/db"
	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"github.com/cronpulse-dev/cronpulse/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateMonitorRequest struct {
	Name       string `json:"name" binding:"required"`
	Period     int    `json:"period" binding:"required"` // Expected cadence in seconds
	Grace      int    `json:"grace"`                     // Optional; computed from period when 0
	WebhookURL string `json:"webhook_url"`
}

type UpdateMonitorRequest struct {
	Name       string `json:"name" binding:"required"`
	Period     int    `json:"period" binding:"required"`
	Grace      int    `json:"grace"`
	WebhookURL string `json:"webhook_url"`
}

type MonitorSummary struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	Period     int        `json:"period"`
	Grace      int        `json:"grace"`
	Status     string     `json:"status"`
	LastPingAt *time.Time `json:"last_ping_at"`
	WebhookURL string     `json:"webhook_url"`
}

type PingSummary struct {
	ID         uint      `json:"id"`
	RemoteAddr string    `json:"remote_addr"`
	UserAgent  string    `json:"user_agent"`
	ReceivedAt time.Time `json:"received_at"`
}

type MonitorListResponse struct {
	Monitors []MonitorSummary `json:"monitors"`
	Counts   StatusCounts     `json:"counts"`
}

type StatusCounts struct {
	Total  int `json:"total"`
	Up     int `json:"up"`
	Down   int `json:"down"`
	New    int `json:"new"`
	Paused int `json:"paused"`
}

func CreateMonitor(ctx *gin.Context) {
	var req CreateMonitorRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	name, webhookURL, errMsg := validateMonitorInput(req.Name, req.Period, req.WebhookURL)

	if errMsg != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	monitor := models.Monitor{
		UserID:     userID,
		Name:       name,
		Slug:       uuid.NewString(),
		Period:     req.Period,
		Grace:      utils.ComputeGrace(req.Period, req.Grace),
		Status:     types.StatusNew,
		WebhookURL: webhookURL,
	}

	if err := db.DB.Create(&monitor).Error; err != nil {
		log.Printf("Failed to create monitor: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create monitor"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Monitor created successfully", "monitor": monitorSummary(monitor)})
}

func ListMonitors(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var monitorsList []models.Monitor

	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&monitorsList).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve monitors"})
		return
	}

	response := MonitorListResponse{Monitors: []MonitorSummary{}}

	for _, monitor := range monitorsList {
		response.Monitors = append(response.Monitors, monitorSummary(monitor))
		response.Counts.Total++

		switch monitor.Status {
		case types.StatusUp:
			response.Counts.Up++
		case types.StatusDown:
			response.Counts.Down++
		case types.StatusPaused:
			response.Counts.Paused++
		default:
			response.Counts.New++
		}
	}

	ctx.JSON(http.StatusOK, response)
}

func GetMonitor(ctx *gin.Context) {
	monitor, ok := findOwnedMonitor(ctx)

	if !ok {
		return
	}

	var pings []models.Ping

	if err := db.DB.Where("monitor_id = ?", monitor.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&pings).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pings"})
		return
	}

	var pingCount int64

	db.DB.Model(&models.Ping{}).Where("monitor_id = ?", monitor.ID).Count(&pingCount)

	pingSummaries := make([]PingSummary, 0, len(pings))

	for _, ping := range pings {
		pingSummaries = append(pingSummaries, PingSummary{
			ID:         ping.ID,
			RemoteAddr: ping.RemoteAddr,
			UserAgent:  ping.UserAgent,
			ReceivedAt: ping.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"monitor":    monitorSummary(monitor),
		"pings":      pingSummaries,
		"ping_count": pingCount,
	})
}

func UpdateMonitor(ctx *gin.Context) {
	monitor, ok := findOwnedMonitor(ctx)

	if !ok {
		return
	}

	var req UpdateMonitorRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name, webhookURL, errMsg := validateMonitorInput(req.Name, req.Period, req.WebhookURL)

	if errMsg != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	monitor.Name = name
	monitor.Period = req.Period
	monitor.Grace = utils.ComputeGrace(req.Period, req.Grace)
	monitor.WebhookURL = webhookURL

	if err := db.DB.Save(&monitor).Error; err != nil {
		log.Printf("Failed to update monitor %d: %v", monitor.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update monitor"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Monitor updated successfully", "monitor": monitorSummary(monitor)})
}

func DeleteMonitor(ctx *gin.Context) {
	monitor, ok := findOwnedMonitor(ctx)

	if !ok {
		return
	}

	// Hard delete so the FK constraints cascade to ping history and alerts.
	if err := db.DB.Unscoped().Delete(&monitor).Error; err != nil {
		log.Printf("Failed to delete monitor %d: %v", monitor.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete monitor"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func PauseMonitor(ctx *gin.Context) {
	monitor, ok := findOwnedMonitor(ctx)

	if !ok {
		return
	}

	if monitor.Status != types.StatusPaused {
		if err := db.DB.Model(&monitor).Update("status", types.StatusPaused).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pause monitor"})
			return
		}
		monitor.Status = types.StatusPaused
	}

	ctx.JSON(http.StatusOK, gin.H{"monitor": monitorSummary(monitor)})
}

func ResumeMonitor(ctx *gin.Context) {
	monitor, ok := findOwnedMonitor(ctx)

	if !ok {
		return
	}

	if monitor.Status == types.StatusPaused {
		// A monitor that has pinged before resumes as up, one that never
		// started goes back to new.
		next := types.StatusNew

		if monitor.LastPingAt != nil {
			next = types.StatusUp
		}

		if err := db.DB.Model(&monitor).Update("status", next).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resume monitor"})
			return
		}
		monitor.Status = next
	}

	ctx.JSON(http.StatusOK, gin.H{"monitor": monitorSummary(monitor)})
}

func findOwnedMonitor(ctx *gin.Context) (models.Monitor, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.Monitor{}, false
	}

	monitorID, err := utils.GetMonitorID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Monitor{}, false
	}

	var monitor models.Monitor

	if err := db.DB.Where("id = ? AND user_id = ?", monitorID, userID).First(&monitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Monitor not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve monitor"})
		}
		return models.Monitor{}, false
	}

	return monitor, true
}

func validateMonitorInput(name string, period int, webhookURL string) (string, string, string) {
	name = strings.TrimSpace(name)
	webhookURL = strings.TrimSpace(webhookURL)

	if name == "" {
		return "", "", "Monitor name is required"
	}

	if len(name) > 200 {
		return "", "", "Monitor name must be at most 200 characters"
	}

	if period < 60 {
		return "", "", "Period must be at least 60 seconds"
	}

	if webhookURL != "" {
		parsed, err := url.Parse(webhookURL)

		if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return "", "", "Webhook URL must be an absolute http or https URL"
		}
	}

	return name, webhookURL, ""
}

func monitorSummary(monitor models.Monitor) MonitorSummary {
	return MonitorSummary{
		ID:         monitor.ID,
		Name:       monitor.Name,
		Slug:       monitor.Slug,
		Period:     monitor.Period,
		Grace:      monitor.Grace,
		Status:     monitor.Status,
		LastPingAt: monitor.LastPingAt,
		WebhookURL: monitor.WebhookURL,
	}
}

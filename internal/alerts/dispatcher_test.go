package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Monitor{}, &models.Ping{}, &models.Alert{}))

	return gdb
}

func createOwner(t *testing.T, gdb *gorm.DB, emailAlerts bool) models.User {
	t.Helper()

	user := models.User{
		Username:           uuid.NewString()[:8],
		Email:              uuid.NewString()[:8] + "@example.com",
		PasswordHash:       "x",
		IsActive:           true,
		APIKey:             uuid.NewString(),
		EmailAlertsEnabled: emailAlerts,
	}
	require.NoError(t, gdb.Create(&user).Error)
	// The column default is true, so a zero-value create would silently
	// persist an email-enabled user; write the flag explicitly.
	require.NoError(t, gdb.Model(&user).Update("email_alerts_enabled", emailAlerts).Error)

	return user
}

func createMonitor(t *testing.T, gdb *gorm.DB, userID uint, webhookURL string) models.Monitor {
	t.Helper()

	now := time.Now().UTC()
	monitor := models.Monitor{
		UserID:     userID,
		Name:       "backup job",
		Slug:       uuid.NewString(),
		Period:     300,
		Grace:      150,
		Status:     types.StatusUp,
		LastPingAt: &now,
		WebhookURL: webhookURL,
	}
	require.NoError(t, gdb.Create(&monitor).Error)

	return monitor
}

func loadAlerts(t *testing.T, gdb *gorm.DB, monitorID uint) []models.Alert {
	t.Helper()

	var alertRows []models.Alert
	require.NoError(t, gdb.Where("monitor_id = ?", monitorID).Order("id").Find(&alertRows).Error)

	return alertRows
}

func TestDispatchBothChannels(t *testing.T) {
	gdb := newTestDB(t)

	var received WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	user := createOwner(t, gdb, true)
	monitor := createMonitor(t, gdb, user.ID, server.URL)

	d := NewDispatcher(NewEmailNotifier("", 0, "", "", "alerts@cronpulse.dev", "http://localhost:3000"), NewWebhookNotifier())
	require.NoError(t, d.Dispatch(context.Background(), gdb, &monitor, types.AlertTypeDown))

	alertRows := loadAlerts(t, gdb, monitor.ID)
	require.Len(t, alertRows, 2)
	require.Equal(t, types.ChannelEmail, alertRows[0].Channel)
	require.Equal(t, types.AlertTypeDown, alertRows[0].AlertType)
	require.Contains(t, alertRows[0].Details, "Down alert sent to "+user.Email)
	require.Equal(t, types.ChannelWebhook, alertRows[1].Channel)
	require.Contains(t, alertRows[1].Details, server.URL)

	require.Equal(t, monitor.Name, received.MonitorName)
	require.Equal(t, monitor.Slug, received.MonitorSlug)
	require.Equal(t, types.AlertTypeDown, received.Status)
	require.Contains(t, received.Details, "is now DOWN")

	_, err := time.Parse(time.RFC3339, received.Timestamp)
	require.NoError(t, err)
}

func TestDispatchEmailDisabled(t *testing.T) {
	gdb := newTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	user := createOwner(t, gdb, false)
	monitor := createMonitor(t, gdb, user.ID, server.URL)

	d := NewDispatcher(NewEmailNotifier("", 0, "", "", "alerts@cronpulse.dev", "http://localhost:3000"), NewWebhookNotifier())
	require.NoError(t, d.Dispatch(context.Background(), gdb, &monitor, types.AlertTypeUp))

	alertRows := loadAlerts(t, gdb, monitor.ID)
	require.Len(t, alertRows, 1)
	require.Equal(t, types.ChannelWebhook, alertRows[0].Channel)
	require.Equal(t, types.AlertTypeUp, alertRows[0].AlertType)
	require.Contains(t, alertRows[0].Details, "Recovery alert sent to")
}

func TestDispatchNoWebhookConfigured(t *testing.T) {
	gdb := newTestDB(t)

	user := createOwner(t, gdb, true)
	monitor := createMonitor(t, gdb, user.ID, "")

	d := NewDispatcher(NewEmailNotifier("", 0, "", "", "alerts@cronpulse.dev", "http://localhost:3000"), NewWebhookNotifier())
	require.NoError(t, d.Dispatch(context.Background(), gdb, &monitor, types.AlertTypeDown))

	alertRows := loadAlerts(t, gdb, monitor.ID)
	require.Len(t, alertRows, 1)
	require.Equal(t, types.ChannelEmail, alertRows[0].Channel)
}

func TestDispatchAlertEmailPreferred(t *testing.T) {
	gdb := newTestDB(t)

	user := createOwner(t, gdb, true)
	require.NoError(t, gdb.Model(&user).Update("alert_email", "oncall@example.com").Error)
	monitor := createMonitor(t, gdb, user.ID, "")

	d := NewDispatcher(NewEmailNotifier("", 0, "", "", "alerts@cronpulse.dev", "http://localhost:3000"), NewWebhookNotifier())
	require.NoError(t, d.Dispatch(context.Background(), gdb, &monitor, types.AlertTypeDown))

	alertRows := loadAlerts(t, gdb, monitor.ID)
	require.Len(t, alertRows, 1)
	require.Contains(t, alertRows[0].Details, "oncall@example.com")
}

func TestDispatchMissingOwner(t *testing.T) {
	gdb := newTestDB(t)

	monitor := createMonitor(t, gdb, 9999, "")

	d := NewDispatcher(NewEmailNotifier("", 0, "", "", "alerts@cronpulse.dev", "http://localhost:3000"), NewWebhookNotifier())
	require.NoError(t, d.Dispatch(context.Background(), gdb, &monitor, types.AlertTypeDown))

	require.Empty(t, loadAlerts(t, gdb, monitor.ID))
}

func TestDispatchWebhookFailureStillAudited(t *testing.T) {
	gdb := newTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	user := createOwner(t, gdb, false)
	monitor := createMonitor(t, gdb, user.ID, server.URL)

	d := NewDispatcher(NewEmailNotifier("", 0, "", "", "alerts@cronpulse.dev", "http://localhost:3000"), NewWebhookNotifier())
	require.NoError(t, d.Dispatch(context.Background(), gdb, &monitor, types.AlertTypeDown))

	// The attempt is audited even though the transport failed.
	alertRows := loadAlerts(t, gdb, monitor.ID)
	require.Len(t, alertRows, 1)
	require.Equal(t, types.ChannelWebhook, alertRows[0].Channel)
}

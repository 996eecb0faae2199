package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cronpulse-dev/cronpulse/db"
	"github.com/cronpulse-dev/cronpulse/internal/alerts"
	"github.com/cronpulse-dev/cronpulse/internal/heartbeat"
	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/router"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Monitor{}, &models.Ping{}, &models.Alert{}))

	db.DB = gdb

	dispatcher := alerts.NewDispatcher(
		alerts.NewEmailNotifier("", 0, "", "", "alerts@cronpulse.dev", "http://localhost:3000"),
		alerts.NewWebhookNotifier(),
	)

	return router.NewRouter(heartbeat.NewIngestor(gdb, dispatcher))
}

func seedMonitor(t *testing.T, status string, lastPingAt *time.Time) models.Monitor {
	t.Helper()

	user := models.User{
		Username:           uuid.NewString()[:8],
		Email:              uuid.NewString()[:8] + "@example.com",
		PasswordHash:       "x",
		IsActive:           true,
		APIKey:             uuid.NewString(),
		EmailAlertsEnabled: true,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	monitor := models.Monitor{
		UserID:     user.ID,
		Name:       "cert renewal",
		Slug:       uuid.NewString(),
		Period:     300,
		Grace:      150,
		Status:     status,
		LastPingAt: lastPingAt,
	}
	require.NoError(t, db.DB.Create(&monitor).Error)

	return monitor
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)

	return w
}

func TestPingEndpointAccepts(t *testing.T) {
	r := newTestRouter(t)
	monitor := seedMonitor(t, types.StatusNew, nil)

	w := doRequest(r, http.MethodGet, "/ping/"+monitor.Slug)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())

	var updated models.Monitor
	require.NoError(t, db.DB.First(&updated, monitor.ID).Error)
	require.Equal(t, types.StatusUp, updated.Status)
}

func TestPingEndpointAcceptsPost(t *testing.T) {
	r := newTestRouter(t)
	monitor := seedMonitor(t, types.StatusNew, nil)

	w := doRequest(r, http.MethodPost, "/ping/"+monitor.Slug)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}

func TestPingEndpointPaused(t *testing.T) {
	r := newTestRouter(t)
	monitor := seedMonitor(t, types.StatusPaused, nil)

	w := doRequest(r, http.MethodGet, "/ping/"+monitor.Slug)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK (paused)", w.Body.String())

	var count int64
	require.NoError(t, db.DB.Model(&models.Ping{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestPingEndpointUnknownSlug(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/ping/"+uuid.NewString())
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Not Found", w.Body.String())
}

func TestBadgeJSON(t *testing.T) {
	r := newTestRouter(t)

	lastPing := time.Now().UTC().Add(-time.Minute)
	monitor := seedMonitor(t, types.StatusUp, &lastPing)

	w := doRequest(r, http.MethodGet, "/badge/"+monitor.Slug+".json")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Name    string  `json:"name"`
		Status  string  `json:"status"`
		LastPin *string `json:"last_ping"`
		Period  int     `json:"period"`
		Grace   int     `json:"grace"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, monitor.Name, body.Name)
	require.Equal(t, types.StatusUp, body.Status)
	require.NotNil(t, body.LastPin)
	require.Equal(t, 300, body.Period)
	require.Equal(t, 150, body.Grace)
}

func TestBadgeSVG(t *testing.T) {
	r := newTestRouter(t)
	monitor := seedMonitor(t, types.StatusDown, nil)

	w := doRequest(r, http.MethodGet, "/badge/"+monitor.Slug+".svg")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), types.StatusColors[types.StatusDown])
	require.Contains(t, w.Body.String(), ">down</text>")
}

func TestBadgeUnknownSlug(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/badge/"+uuid.NewString()+".svg")
	require.Equal(t, http.StatusNotFound, w.Code)
}

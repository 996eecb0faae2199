package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Monitor statuses
const (
	StatusNew    = "new"
	StatusUp     = "up"
	StatusDown   = "down"
	StatusPaused = "paused"
)

// Alert types
const (
	AlertTypeDown = "down"
	AlertTypeUp   = "up"
)

// Alert channels
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// StatusColors maps a monitor status to its badge color.
var StatusColors = map[string]string{
	StatusUp:     "#4c1",
	StatusDown:   "#e05d44",
	StatusNew:    "#9f9f9f",
	StatusPaused: "#dfb317",
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

package types

type UserResponse struct {
	ID                 uint   `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	AlertEmail         string `json:"alert_email"`
	EmailAlertsEnabled bool   `json:"email_alerts_enabled"`
	APIKey             string `json:"api_key"`
}

package alerts

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strconv"
	"strings"

	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"github.com/cronpulse-dev/cronpulse/internal/utils"
)

// EmailNotifier sends alert mail over SMTP. With no host configured it runs
// in dev mode and only logs the message.
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	baseURL  string
}

func NewEmailNotifier(host string, port int, username, password, from, baseURL string) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		baseURL:  baseURL,
	}
}

func NewEmailNotifierFromEnv() *EmailNotifier {
	port := 587

	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if parsed, err := strconv.Atoi(portStr); err == nil {
			port = parsed
		}
	}

	from := os.Getenv("SMTP_FROM")

	if from == "" {
		from = "alerts@cronpulse.dev"
	}

	baseURL := os.Getenv("BASE_URL")

	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	return NewEmailNotifier(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASSWORD"),
		from,
		baseURL,
	)
}

func (n *EmailNotifier) Name() string {
	return types.ChannelEmail
}

func (n *EmailNotifier) Notify(ctx context.Context, monitor *models.Monitor, user *models.User, alertType string) error {
	recipient := user.AlertRecipient()
	subject, body := n.buildMessage(monitor, alertType)

	if n.host == "" {
		// Dev mode
		log.Printf("EMAIL ALERT [%s] to=%s subject=%s", strings.ToUpper(alertType), recipient, subject)
		return nil
	}

	header := map[string]string{
		"From":         n.from,
		"To":           recipient,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	var message strings.Builder

	for k, v := range header {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}

	message.WriteString("\r\n")
	message.WriteString(body)

	var auth smtp.Auth

	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	if err := smtp.SendMail(addr, auth, n.from, []string{recipient}, []byte(message.String())); err != nil {
		return fmt.Errorf("failed to send email alert: %w", err)
	}

	return nil
}

func (n *EmailNotifier) buildMessage(monitor *models.Monitor, alertType string) (string, string) {
	monitorURL := fmt.Sprintf("%s/monitors/%d", n.baseURL, monitor.ID)

	if alertType == types.AlertTypeDown {
		lastPing := "never"

		if monitor.LastPingAt != nil {
			lastPing = monitor.LastPingAt.UTC().Format("2006-01-02 15:04:05 UTC")
		}

		subject := fmt.Sprintf("[CronPulse] %s is DOWN", monitor.Name)
		body := fmt.Sprintf(
			"Monitor '%s' has gone DOWN.\nLast ping: %s\nExpected interval: %s (grace: %s)\n\nView monitor: %s\n",
			monitor.Name,
			lastPing,
			utils.FormatDuration(monitor.Period),
			utils.FormatDuration(monitor.Grace),
			monitorURL,
		)

		return subject, body
	}

	pingAt := ""

	if monitor.LastPingAt != nil {
		pingAt = monitor.LastPingAt.UTC().Format("2006-01-02 15:04:05 UTC")
	}

	subject := fmt.Sprintf("[CronPulse] %s has RECOVERED", monitor.Name)
	body := fmt.Sprintf(
		"Monitor '%s' has RECOVERED and is now UP.\nPing received at: %s\n\nView monitor: %s\n",
		monitor.Name,
		pingAt,
		monitorURL,
	)

	return subject, body
}

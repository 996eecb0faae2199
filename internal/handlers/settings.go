package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/cronpulse-dev/cronpulse/db"
	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UpdateAlertSettingsRequest struct {
	AlertEmail         string `json:"alert_email" binding:"omitempty,email"`
	EmailAlertsEnabled *bool  `json:"email_alerts_enabled" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
}

// UpdateAlertSettings stores the alert delivery preferences. An empty alert
// email means alerts fall back to the account address.
func UpdateAlertSettings(ctx *gin.Context) {
	user, ok := currentDBUser(ctx)

	if !ok {
		return
	}

	var req UpdateAlertSettingsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"alert_email":          strings.TrimSpace(req.AlertEmail),
		"email_alerts_enabled": *req.EmailAlertsEnabled,
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to update alert settings for user %d: %v", user.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

func ChangePassword(ctx *gin.Context) {
	user, ok := currentDBUser(ctx)

	if !ok {
		return
	}

	var req ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	if req.NewPassword != req.NewPasswordConfirm {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "New passwords do not match"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Model(&user).Update("password_hash", string(passwordHash)).Error; err != nil {
		log.Printf("Failed to change password for user %d: %v", user.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func RegenerateAPIKey(ctx *gin.Context) {
	user, ok := currentDBUser(ctx)

	if !ok {
		return
	}

	newKey := uuid.NewString()

	if err := db.DB.Model(&user).Update("api_key", newKey).Error; err != nil {
		log.Printf("Failed to regenerate API key for user %d: %v", user.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate API key"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"api_key": newKey})
}

func currentDBUser(ctx *gin.Context) (models.User, bool) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.User{}, false
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return models.User{}, false
	}

	return user, true
}

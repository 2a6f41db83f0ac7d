package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"tambaqui-prime/config"
	"tambaqui-prime/models"
	"tambaqui-prime/services"
	"tambaqui-prime/utils"
)

type AuthController struct {
	state *services.AppState
}

func NewAuthController(state *services.AppState) *AuthController {
	return &AuthController{state: state}
}

func tokenExpiry(remember bool) time.Duration {
	raw := config.AppConfig.JWTExpiry
	if remember {
		raw = config.AppConfig.JWTRememberExpiry
	}
	expiry, err := time.ParseDuration(raw)
	if err != nil {
		expiry = 24 * time.Hour
	}
	return expiry
}

// @Summary Admin login
// @Description Exact, case-sensitive credential match. With remember=true the session and username are persisted; otherwise any persisted session data is cleared
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	admin, ok := ctrl.state.Authenticate(req.Username, req.Password)
	if !ok {
		c.JSON(401, gin.H{"success": false, "message": "Invalid username or password"})
		return
	}

	if req.Remember {
		ctrl.state.RememberSession(admin)
	} else {
		ctrl.state.ClearSession()
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username, tokenExpiry(req.Remember))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	// Refresh the catalog replica so the admin edits against current data.
	// A sync failure never fails the login.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ctrl.state.SyncWithCloud(ctx); err != nil {
			log.Printf("Post-login sync failed: %v", err)
		}
	}()

	c.JSON(200, gin.H{"success": true, "message": "Login successful", "data": models.LoginResponse{
		Token: token,
		User:  admin,
	}})
}

// @Summary Admin logout
// @Description Clears any persisted session data
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.Response
// @Security BearerAuth
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	ctrl.state.ClearSession()
	c.JSON(200, gin.H{"success": true, "message": "Logged out"})
}

// @Summary Get the remembered username
// @Description For pre-filling the login form
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/remembered [get]
func (ctrl *AuthController) GetRemembered(c *gin.Context) {
	c.JSON(200, gin.H{
		"success": true,
		"message": "Remembered username retrieved",
		"data":    gin.H{"username": ctrl.state.RememberedUsername()},
	})
}

// @Summary Create an admin account
// @Description Rejected once the admin collection holds 4 members
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.CreateAdminRequest true "Admin Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/admins [post]
func (ctrl *AuthController) CreateAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	admin, err := ctrl.state.AddAdmin(req.Username, hash)
	switch {
	case errors.Is(err, services.ErrAdminLimit):
		c.JSON(400, gin.H{"success": false, "message": "Admin limit reached"})
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(400, gin.H{"success": false, "message": "Username already in use"})
	case err != nil:
		c.JSON(500, gin.H{"success": false, "message": "Failed to create admin"})
	default:
		c.JSON(201, gin.H{"success": true, "message": "Admin created", "data": admin})
	}
}

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tauasu/booking-app/store"
	"github.com/tauasu/booking-app/utils"
)

type UserController struct {
	Store *store.Store
}

func NewUserController(s *store.Store) *UserController {
	return &UserController{Store: s}
}

// Login -> validates against the static registry, returns a JWT. A
// successful login also triggers the store's initial fetch + realtime
// subscription.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Store.Login(input.Username, input.Password)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.Username, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":       token,
		"username":    user.Username,
		"role":        strings.ToLower(user.Role),
		"displayName": user.DisplayName,
	})
}

// Logout -> blacklists the presented token and tears down the realtime
// subscription.
func (uc *UserController) Logout(c *gin.Context) {
	if token := c.GetString("token"); token != "" {
		utils.BlacklistToken(token)
	}
	uc.Store.Logout()

	utils.InfoLogger.Printf("User %s logged out", c.GetString("username"))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> identity from the JWT claims.
func (uc *UserController) GetProfile(c *gin.Context) {
	username := c.GetString("username")
	user, ok := uc.Store.UserByUsername(username)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data", gin.H{
		"username":    user.Username,
		"role":        user.Role,
		"displayName": user.DisplayName,
	})
}

// GetAllUsers -> admin only, the static registry without password hashes.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "All users", uc.Store.Users())
}

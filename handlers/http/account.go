package httpHandler

import (
	"errors"
	"net/http"

	"ecowattch-server/entities"
	"ecowattch-server/logger"
	"ecowattch-server/usecases"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	useCase *usecases.AccountUseCase
	log     *logger.Logger
}

func NewAccountHandler(useCase *usecases.AccountUseCase, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		useCase: useCase,
		log:     log,
	}
}

// Password length is checked in bytes by the use case, binding's max counts runes.
type SignupRequest struct {
	Username  string `json:"usernames" binding:"required,max=255"`
	Password  string `json:"passwords" binding:"required"`
	Dormitory string `json:"dormitory"`
}

type LoginRequest struct {
	Username string `json:"usernames" binding:"required"`
	Password string `json:"passwords" binding:"required"`
}

// Signup handles POST /signup
func (h *AccountHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.useCase.Signup(c.Request.Context(), req.Username, req.Password, req.Dormitory); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  statusSuccess,
		"message": "User created successfully",
	})
}

// Login handles POST /login. Wrong credentials are answered with 200 and a
// failure status, which existing clients depend on.
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.useCase.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, entities.ErrInvalidCredentials) {
		c.JSON(http.StatusOK, gin.H{
			"status":  statusFailure,
			"message": "Invalid credentials",
		})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"message": "Login successful",
		"user":    profile,
	})
}

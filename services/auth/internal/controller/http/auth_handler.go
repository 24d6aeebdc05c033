package http

import (
	"errors"
	"net/http"

	"threadboard/pkg/middleware"
	"threadboard/services/auth/internal/entity"
	"threadboard/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
}

func NewAuthHandler(authUseCase usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login. The token goes into the
// Authorization header of later blog requests.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// authFailures maps usecase errors onto statuses; anything else is a 500.
var authFailures = []struct {
	err    error
	status int
}{
	{usecase.ErrUsernameTaken, http.StatusConflict},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrUserNotFound, http.StatusNotFound},
}

func fail(c *gin.Context, err error, fallback string) {
	for _, f := range authFailures {
		if errors.Is(err, f.err) {
			c.JSON(f.status, gin.H{"error": f.err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// Register godoc
// @Summary      Register a new user
// @Description  Create an account and sign it in. Usernames are unique.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}

	user, token, err := h.authUseCase.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary      Login user
// @Description  Exchange username and password for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}

	user, token, err := h.authUseCase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me godoc
// @Summary      Current user
// @Description  Resolve the bearer token to its account. A token whose account was deleted gets 404.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		middleware.AbortUnauthenticated(c)
		return
	}

	user, err := h.authUseCase.GetUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, user)
}

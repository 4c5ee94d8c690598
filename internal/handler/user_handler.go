package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mafia/backend/internal/auth"
	"mafia/backend/internal/models"
	"mafia/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username   string `json:"username" binding:"required" example:"Ada"`
	TelegramID *int64 `json:"telegram_id" example:"123456789"`
	Password   string `json:"password" binding:"omitempty,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"Ada"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UserResponse is the public profile of a user.
type UserResponse struct {
	ID         uint      `json:"id" example:"1"`
	Username   string    `json:"username" example:"Ada"`
	TelegramID *int64    `json:"telegram_id,omitempty"`
	TotalGames int       `json:"total_games"`
	TotalWins  int       `json:"total_wins"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResponse is returned by every sign-in flow.
type AuthResponse struct {
	Token string       `json:"token,omitempty"`
	User  UserResponse `json:"user"`
}

type LeaderboardEntryResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	TotalGames int    `json:"total_games"`
	TotalWins  int    `json:"total_wins"`
	WinRate    int    `json:"win_rate"`
}

type AchievementResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

func newUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		TelegramID: user.TelegramID,
		TotalGames: user.TotalGames,
		TotalWins:  user.TotalWins,
		AvatarURL:  user.AvatarURL,
		CreatedAt:  user.CreatedAt,
	}
}

// endregion

// region --- Auth Handlers ---

func (h *Handler) respondAuth(c *gin.Context, status int, user *models.User) {
	token, err := h.issueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: newUserResponse(*user)})
}

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns it with a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.RegisterUser(c.Request.Context(), service.RegisterInput{
		Username:   input.Username,
		TelegramID: input.TelegramID,
		Password:   input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondAuth(c, http.StatusCreated, user)
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Router       /auth/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.LoginUser(c.Request.Context(), service.LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondAuth(c, http.StatusOK, user)
}

// TelegramLogin godoc
// @Summary      Log in with Telegram
// @Description  Verifies a Telegram Login Widget payload and creates or refreshes the user.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body map[string]interface{} true "Telegram widget fields including hash"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse "Hash missing"
// @Failure      401  {object}  ErrorResponse "Invalid authentication"
// @Failure      500  {object}  ErrorResponse "Bot token not configured"
// @Router       /auth/telegram [post]
func (h *Handler) TelegramLogin(c *gin.Context) {
	claims, err := decodeClaims(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.VerifyIdentityLogin(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondAuth(c, http.StatusOK, user)
}

// decodeClaims flattens the widget payload into the string form that was signed.
// Numbers keep their literal text so ids and timestamps round-trip exactly.
func decodeClaims(c *gin.Context) (map[string]string, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	claims := make(map[string]string, len(raw))
	for k, v := range raw {
		switch value := v.(type) {
		case nil:
			continue
		case string:
			claims[k] = value
		case json.Number:
			claims[k] = value.String()
		default:
			claims[k] = fmt.Sprint(value)
		}
	}
	return claims, nil
}

// endregion

// region --- User Handlers ---

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user by their ID.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	viewerID, _ := auth.UserID(c)

	user, err := h.svc.GetUser(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}

// GetUserAchievements godoc
// @Summary      List a user's achievements
// @Description  Returns the full achievement catalog with the user's unlock state.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   AchievementResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/{id}/achievements [get]
func (h *Handler) GetUserAchievements(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	achievements, err := h.svc.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		response = append(response, AchievementResponse{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Unlocked:    a.Unlocked(),
			UnlockedAt:  a.UnlockedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// GetLeaderboard godoc
// @Summary      Get the leaderboard
// @Description  Top 50 players who have played at least one game, by wins then win rate.
// @Tags         users
// @Produce      json
// @Success      200  {array}   LeaderboardEntryResponse
// @Router       /leaderboard [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	entries, err := h.svc.GetLeaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, LeaderboardEntryResponse(e))
	}
	c.JSON(http.StatusOK, response)
}

// endregion

package handler

import (
	"fmt"
	"net/http"
	"time"

	"mafia/backend/internal/auth"
	"mafia/backend/internal/models"
	"mafia/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type RoomInput struct {
	Name       string `json:"name" binding:"required" example:"Friday night"`
	HostUserID uint   `json:"host_user_id" example:"1"`
	MaxPlayers int    `json:"max_players" binding:"omitempty,min=4,max=20" example:"12"`
}

type JoinRoomInput struct {
	UserID uint `json:"user_id" example:"2"`
}

type RoomSummaryResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Status      models.RoomStatus `json:"status"`
	MaxPlayers  int               `json:"max_players"`
	PlayerCount int64             `json:"player_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

type PlayerResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Role     *string `json:"role"`
	IsAlive  bool    `json:"is_alive"`
	IsBot    bool    `json:"is_bot"`
}

type RoomResponse struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	HostUserID   uint              `json:"host_user_id"`
	Status       models.RoomStatus `json:"status"`
	MaxPlayers   int               `json:"max_players"`
	CurrentPhase models.GamePhase  `json:"current_phase"`
	PhaseEndsAt  *time.Time        `json:"phase_ends_at"`
	CreatedAt    time.Time         `json:"created_at"`
	Players      []PlayerResponse  `json:"players,omitempty"`
}

type JoinRoomResponse struct {
	Success bool `json:"success"`
	Joined  bool `json:"joined"`
}

type AddBotResponse struct {
	Success     bool   `json:"success"`
	UserID      uint   `json:"user_id"`
	BotUsername string `json:"bot_username"`
}

type StartGameResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	PlayerCount int              `json:"player_count"`
	Phase       models.GamePhase `json:"phase"`
}

func newRoomResponse(room models.Room, players []service.PlayerInfo) RoomResponse {
	var playerResponses []PlayerResponse
	for _, p := range players {
		playerResponses = append(playerResponses, PlayerResponse{
			ID:       p.UserID,
			Username: p.Username,
			Role:     p.Role,
			IsAlive:  p.IsAlive,
			IsBot:    p.IsBot,
		})
	}

	return RoomResponse{
		ID:           room.ID,
		Name:         room.Name,
		HostUserID:   room.HostUserID,
		Status:       room.Status,
		MaxPlayers:   room.MaxPlayers,
		CurrentPhase: room.CurrentPhase,
		PhaseEndsAt:  room.PhaseEndsAt,
		CreatedAt:    room.CreatedAt,
		Players:      playerResponses,
	}
}

// endregion

// ListRooms godoc
// @Summary      List open rooms
// @Description  Rooms that are waiting for players or playing, newest first.
// @Tags         rooms
// @Produce      json
// @Success      200 {array} RoomSummaryResponse
// @Router       /rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.svc.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RoomSummaryResponse, 0, len(rooms))
	for _, r := range rooms {
		response = append(response, RoomSummaryResponse{
			ID:          r.ID,
			Name:        r.Name,
			Status:      r.Status,
			MaxPlayers:  r.MaxPlayers,
			PlayerCount: r.PlayerCount,
			CreatedAt:   r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// CreateRoom godoc
// @Summary      Create a new room
// @Description  Creates a waiting room and seats the host. The host defaults to the authenticated user.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RoomInput true "Room Info"
// @Success      201  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Host not found"
// @Router       /rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	var input RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.svc.CreateRoom(c.Request.Context(), service.CreateRoomInput{
		Name:       input.Name,
		HostUserID: orViewer(c, input.HostUserID),
		MaxPlayers: input.MaxPlayers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoomResponse(*room, nil))
}

// GetRoomByID godoc
// @Summary      Get a room by ID
// @Description  Room state and roster in join order. Roles are only shown to their owner until the game is finished.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} RoomResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id} [get]
func (h *Handler) GetRoomByID(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	info, err := h.svc.GetRoomInfo(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID, _ := auth.UserID(c)
	visible := info.VisibleTo(viewerID)
	c.JSON(http.StatusOK, newRoomResponse(visible.Room, visible.Players))
}

// JoinRoom godoc
// @Summary      Join a room
// @Description  Takes a seat in a waiting room. Joining a room twice is not an error.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int           true  "Room ID"
// @Param        input body JoinRoomInput false "Joining user; defaults to the authenticated user"
// @Success      200 {object} JoinRoomResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Room is full or game already started"
// @Router       /rooms/{id}/join [post]
func (h *Handler) JoinRoom(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input JoinRoomInput
	if err := bindOptionalJSON(c, &input); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.JoinRoom(c.Request.Context(), service.JoinRoomInput{
		RoomID: roomID,
		UserID: orViewer(c, input.UserID),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, JoinRoomResponse{Success: true, Joined: result.Joined})
}

// AddBot godoc
// @Summary      Add a bot to a room
// @Description  Seats a bot player in a waiting room, up to 20 players in total.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} AddBotResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Game already started or roster cap reached"
// @Router       /rooms/{id}/bots [post]
func (h *Handler) AddBot(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.AddBot(c.Request.Context(), service.AddBotInput{RoomID: roomID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AddBotResponse{Success: true, UserID: result.UserID, BotUsername: result.BotUsername})
}

// StartGame godoc
// @Summary      Start the game
// @Description  Deals roles to every seated player and moves the room to the first night.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} StartGameResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Game already started or finished"
// @Failure      422 {object} ErrorResponse "Minimum 4 players required"
// @Router       /rooms/{id}/start [post]
func (h *Handler) StartGame(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.StartGame(c.Request.Context(), service.StartGameInput{RoomID: roomID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StartGameResponse{
		Success:     true,
		Message:     fmt.Sprintf("Game started with %d players", result.PlayerCount),
		PlayerCount: result.PlayerCount,
		Phase:       result.Phase,
	})
}

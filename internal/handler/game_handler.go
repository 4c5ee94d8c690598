package handler

import (
	"net/http"

	"mafia/backend/internal/models"
	"mafia/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type VoteInput struct {
	ActorID  uint `json:"actor_id" example:"2"`
	TargetID uint `json:"target_id" binding:"required" example:"5"`
}

type ActionInput struct {
	ActorID    uint             `json:"actor_id" example:"2"`
	TargetID   uint             `json:"target_id" binding:"required" example:"5"`
	ActionType string           `json:"action_type" binding:"required,max=32" example:"heal"`
	Phase      models.GamePhase `json:"phase" binding:"required,oneof=night day voting" example:"night"`
}

type ActionResponse struct {
	Success  bool `json:"success"`
	ActionID uint `json:"action_id"`
}

// Vote godoc
// @Summary      Vote for a player
// @Description  Records a vote in the voting phase. The actor defaults to the authenticated user.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Room ID"
// @Param        input body VoteInput true "Vote"
// @Success      200 {object} ActionResponse
// @Failure      400 {object} ErrorResponse
// @Router       /rooms/{id}/vote [post]
func (h *Handler) Vote(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	action, err := h.svc.RecordVote(c.Request.Context(), roomID, orViewer(c, input.ActorID), input.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActionResponse{Success: true, ActionID: action.ID})
}

// RecordAction godoc
// @Summary      Record a player action
// @Description  Appends a targeted action such as a night ability. Actions are not validated against the room state.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Room ID"
// @Param        input body ActionInput true "Action"
// @Success      200 {object} ActionResponse
// @Failure      400 {object} ErrorResponse
// @Router       /rooms/{id}/actions [post]
func (h *Handler) RecordAction(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	action, err := h.svc.RecordAction(c.Request.Context(), service.RecordActionInput{
		RoomID:       roomID,
		ActorUserID:  orViewer(c, input.ActorID),
		TargetUserID: input.TargetID,
		ActionType:   input.ActionType,
		Phase:        input.Phase,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActionResponse{Success: true, ActionID: action.ID})
}

package handler

import (
	"io"

	"github.com/gin-gonic/gin"
)

// RoomEvents godoc
// @Summary      Stream room events
// @Description  Server-sent events for a room: player_joined, bot_added, game_started, vote_recorded.
// @Tags         rooms
// @Produce      text/event-stream
// @Param        id path int true "Room ID"
// @Success      200 {string} string "event stream"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id}/events [get]
func (h *Handler) RoomEvents(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.GetRoomInfo(c.Request.Context(), roomID); err != nil {
		respondError(c, err)
		return
	}

	client := h.hub.Subscribe(roomID)
	defer h.hub.Unsubscribe(roomID, client)

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

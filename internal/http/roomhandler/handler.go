package roomhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codepairgo/internal/services/room"
)

type Handler struct {
	svc room.IRoomService
}

func New(svc room.IRoomService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/rooms", h.create)
	r.GET("/rooms/:room_id", h.info)
}

// @Summary		Create a room
// @Description	Creates an empty room with the default language and returns its identifier.
// @Tags			Rooms
// @Success		200	{object}	RoomCreateResponse
// @Failure		500	{object}	ErrorResponse
// @Router			/rooms [post]
func (h *Handler) create(ginCtx *gin.Context) {
	dto, err := h.svc.CreateRoom(ginCtx.Request.Context())
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, RoomCreateResponse{RoomID: dto.RoomID})
}

// @Summary		Get room details
// @Description	Returns the room's current code buffer and language.
// @Tags			Rooms
// @Param			room_id	path		string	true	"Room ID"
// @Success		200		{object}	RoomInfoResponse
// @Failure		404		{object}	ErrorResponse
// @Router			/rooms/{room_id} [get]
func (h *Handler) info(ginCtx *gin.Context) {
	dto, err := h.svc.GetRoom(ginCtx.Request.Context(), ginCtx.Param("room_id"))
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			ginCtx.JSON(http.StatusNotFound, ErrorResponse{Error: "Room not found"})
			return
		}
		ginCtx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, RoomInfoResponse{
		RoomID:   dto.RoomID,
		Code:     dto.Code,
		Language: dto.Language,
	})
}

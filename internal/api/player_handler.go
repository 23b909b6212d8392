package api

import (
	"fmt"
	"net/http"

	"GameCatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PlayerHandler 玩家接口
type PlayerHandler struct {
	playerService *service.PlayerService
	logger        *logrus.Logger
}

func NewPlayerHandler(playerService *service.PlayerService, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		logger:        logger,
	}
}

// ListPlayers GET /jugadores
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	list, err := h.playerService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListPlayers", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetPlayer GET /jugadores/:id
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.playerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetPlayer", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePlayer POST /jugadores
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req service.PlayerInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.playerService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreatePlayer", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePlayer PUT /jugadores/:id
func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.PlayerInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.playerService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "UpdatePlayer", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePlayer DELETE /jugadores/:id，名下游戏的处理由 lifecycle.player_delete_policy 决定
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.playerService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "DeletePlayer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mensaje":              fmt.Sprintf("Jugador con ID %d eliminado correctamente", id),
		"juegos_archivados":    result.JuegosArchivados,
		"juegos_desvinculados": result.JuegosDesvinculados,
	})
}

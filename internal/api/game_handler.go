package api

import (
	"fmt"
	"net/http"

	"GameCatalog/internal/repository"
	"GameCatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GameHandler 游戏接口
type GameHandler struct {
	gameService *service.GameService
	logger      *logrus.Logger
}

// NewGameHandler 创建 GameHandler
func NewGameHandler(gameService *service.GameService, logger *logrus.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logger,
	}
}

// ListGames 游戏列表 GET /juegos?nombre=zelda&plataforma=switch
// 两个条件均为大小写不敏感子串匹配，同时给出时取交集
func (h *GameHandler) ListGames(c *gin.Context) {
	filter := repository.GameFilter{
		Nombre:     c.Query("nombre"),
		Plataforma: c.Query("plataforma"),
	}
	games, err := h.gameService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "ListGames", err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame 游戏详情 GET /juegos/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	game, err := h.gameService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetGame", err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// CreateGame 创建游戏 POST /juegos
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req service.GameInput
	if !bindJSON(c, &req) {
		return
	}
	game, err := h.gameService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreateGame", err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// UpdateGame 整体替换 PUT /juegos/:id
func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.GameInput
	if !bindJSON(c, &req) {
		return
	}
	game, err := h.gameService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "UpdateGame", err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame 归档并删除 DELETE /juegos/:id
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	archived, err := h.gameService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "DeleteGame", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mensaje":   fmt.Sprintf("Juego con ID %d eliminado correctamente", id),
		"eliminado": archived,
	})
}

// ListArchivedGames 已归档游戏 GET /juegos_eliminados
func (h *GameHandler) ListArchivedGames(c *gin.Context) {
	list, err := h.gameService.ListArchived(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListArchivedGames", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

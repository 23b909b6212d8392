package api

import (
	"net/http"

	"GameCatalog/internal/config"
	"GameCatalog/internal/interfaces"
	"GameCatalog/internal/repository"
	"GameCatalog/internal/service"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter 组装服务与路由。notifier 接收实体变更通知（报表投影），可为 nil
func NewRouter(cfg *config.Config, store *repository.Store, reports *service.ReportService, notifier interfaces.ChangeNotifier, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), gin.Recovery())

	// 注册pprof 方便调试和监测性能问题
	if cfg.Server.PProf {
		pprof.Register(r)
	}

	gameHandler := NewGameHandler(service.NewGameService(store, notifier, logger), logger)
	playerHandler := NewPlayerHandler(service.NewPlayerService(store, cfg.Lifecycle.PlayerDeletePolicy, notifier, logger), logger)
	categoryHandler := NewCategoryHandler(service.NewCategoryService(store, cfg.Lifecycle.CategoryDeletePolicy, notifier, logger), logger)
	reportHandler := NewReportHandler(reports, logger)

	juegos := r.Group("/juegos")
	{
		juegos.GET("", gameHandler.ListGames)
		juegos.POST("", gameHandler.CreateGame)
		juegos.GET("/:id", gameHandler.GetGame)
		juegos.PUT("/:id", gameHandler.UpdateGame)
		juegos.DELETE("/:id", gameHandler.DeleteGame)
	}
	r.GET("/juegos_eliminados", gameHandler.ListArchivedGames)

	jugadores := r.Group("/jugadores")
	{
		jugadores.GET("", playerHandler.ListPlayers)
		jugadores.POST("", playerHandler.CreatePlayer)
		jugadores.GET("/:id", playerHandler.GetPlayer)
		jugadores.PUT("/:id", playerHandler.UpdatePlayer)
		jugadores.DELETE("/:id", playerHandler.DeletePlayer)
	}

	categorias := r.Group("/categorias")
	{
		categorias.GET("", categoryHandler.ListCategories)
		categorias.POST("", categoryHandler.CreateCategory)
		categorias.GET("/:id", categoryHandler.GetCategory)
		categorias.PUT("/:id", categoryHandler.UpdateCategory)
		categorias.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	r.GET("/reporte", reportHandler.DownloadReport)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

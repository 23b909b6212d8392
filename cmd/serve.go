package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"GameCatalog/internal/api"
	"GameCatalog/internal/database"
	"GameCatalog/internal/interfaces"
	"GameCatalog/internal/repository"
	"GameCatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		logger.Info("配置文件加载成功")

		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.WithError(err).Warn("关闭数据库失败")
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := repository.NewStore(db)
		reports := service.NewReportService(store, cfg.Report.Path, logger)

		var notifier interfaces.ChangeNotifier = interfaces.NoopNotifier{}
		var wg sync.WaitGroup
		if cfg.Report.RegenerateOnChange {
			projector := service.NewReportProjector(reports, logger)
			notifier = projector
			wg.Add(1)
			go func() {
				defer wg.Done()
				projector.Run(ctx)
			}()
		}

		gin.SetMode(cfg.Server.Mode)
		logger.Infof("Gin运行模式: %s", cfg.Server.Mode)
		router := api.NewRouter(cfg, store, reports, notifier, logger)

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: router,
		}
		errCh := make(chan error, 1)
		go func() {
			logger.Infof("服务启动成功，端口：%d", cfg.Server.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				stop()
				wg.Wait()
				return fmt.Errorf("启动服务失败: %w", err)
			}
		case <-ctx.Done():
		}

		logger.Info("收到退出信号，开始优雅关闭")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("HTTP 服务关闭超时")
		}
		wg.Wait()
		logger.Info("服务已退出")
		return nil
	},
}

package main

import (
	"GameCatalog/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建或更新数据库表结构后退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		// Open 内部已执行迁移
		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		return database.Close(db)
	},
}

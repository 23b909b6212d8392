package main

import (
	"GameCatalog/internal/database"
	"GameCatalog/internal/repository"
	"GameCatalog/internal/service"

	"github.com/spf13/cobra"
)

var reportStdout bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "生成 CSV 报表（默认写入 report.path）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer database.Close(db)

		reports := service.NewReportService(repository.NewStore(db), cfg.Report.Path, logger)
		if reportStdout {
			return reports.Write(cmd.Context(), cmd.OutOrStdout())
		}
		path, err := reports.Generate(cmd.Context())
		if err != nil {
			return err
		}
		logger.Infof("报表已生成: %s", path)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportStdout, "stdout", false, "输出到标准输出而不是文件")
}

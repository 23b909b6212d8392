package api

import (
	"GameCatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportHandler CSV 报表下载
type ReportHandler struct {
	reportService *service.ReportService
	logger        *logrus.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// DownloadReport 按需重建并下载报表 GET /reporte
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	path, err := h.reportService.Generate(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "DownloadReport", err)
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.FileAttachment(path, "reporte.csv")
}

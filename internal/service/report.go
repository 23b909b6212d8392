package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"GameCatalog/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReportHeader CSV 报表表头
var ReportHeader = []string{"ID", "Nombre", "Plataforma", "Categorías", "Jugador"}

// reportListSep 分类名称在单元格内的分隔符
const reportListSep = "|"

// ReportService 生成在线游戏的 CSV 快照
type ReportService struct {
	store    *repository.Store
	resolver RelationResolver
	path     string
	logger   *logrus.Logger
	mu       sync.Mutex // 串行化文件写入
}

// NewReportService 创建报表服务，path 为报表落盘路径
func NewReportService(store *repository.Store, path string, logger *logrus.Logger) *ReportService {
	return &ReportService{
		store:  store,
		path:   path,
		logger: logger,
	}
}

// Path 报表文件路径
func (s *ReportService) Path() string { return s.path }

// Write 把当前所有在线游戏写成 CSV（按 id 升序）
func (s *ReportService) Write(ctx context.Context, w io.Writer) error {
	games, err := s.store.Games.List(ctx, repository.GameFilter{})
	if err != nil {
		return fmt.Errorf("查询游戏失败: %w", err)
	}
	views, err := s.resolver.Expand(ctx, s.store, games)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return err
	}
	for _, v := range views {
		names := make([]string, 0, len(v.Categorias))
		for _, c := range v.Categorias {
			names = append(names, c.Nombre)
		}
		jugador := ""
		if v.Jugador != nil {
			jugador = v.Jugador.Nombre
		}
		record := []string{
			strconv.FormatUint(v.ID, 10),
			v.Nombre,
			v.Plataforma,
			strings.Join(names, reportListSep),
			jugador,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Generate 重新生成报表文件：先写临时文件再 rename，读者不会看到半个文件
func (s *ReportService) Generate(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建报表目录失败: %w", err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("创建临时报表失败: %w", err)
	}
	if err := s.Write(ctx, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("替换报表失败: %w", err)
	}
	return s.path, nil
}

// ReportProjector 把实体变更转成后台报表重建。
// 通知合并：重建期间到达的多次变更只触发一次后续重建
type ReportProjector struct {
	report  *ReportService
	pending chan struct{}
	logger  *logrus.Logger
}

// NewReportProjector 创建报表投影器，需调用 Run 启动
func NewReportProjector(report *ReportService, logger *logrus.Logger) *ReportProjector {
	return &ReportProjector{
		report:  report,
		pending: make(chan struct{}, 1),
		logger:  logger,
	}
}

// NotifyChange 实现 interfaces.ChangeNotifier，永不阻塞
func (p *ReportProjector) NotifyChange(kind string, id uint64) {
	select {
	case p.pending <- struct{}{}:
	default:
	}
	p.logger.WithFields(logrus.Fields{"kind": kind, "id": id}).Debug("报表重建已排队")
}

// Run 阻塞直到 ctx 取消；重建失败只记录日志
func (p *ReportProjector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.pending:
			if _, err := p.report.Generate(ctx); err != nil {
				p.logger.WithError(err).Warn("ReportProjector: 重建报表失败")
				continue
			}
			p.logger.Debug("ReportProjector: 报表已重建")
		}
	}
}

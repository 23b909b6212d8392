package service

import (
	"context"
	"fmt"
	"strings"

	"GameCatalog/internal/interfaces"
	"GameCatalog/internal/model"
	"GameCatalog/internal/repository"

	"github.com/sirupsen/logrus"
)

// GameInput 创建/更新游戏的请求体，更新时为整体替换
type GameInput struct {
	Nombre     string   `json:"nombre" binding:"required"`
	Plataforma string   `json:"plataforma"`
	JugadorID  *uint64  `json:"jugador_id"`
	Categorias []string `json:"categorias"` // 分类名称，不存在则自动创建
}

// GameService 游戏生命周期：创建、整体替换、归档删除
type GameService struct {
	store    *repository.Store
	resolver RelationResolver
	notifier interfaces.ChangeNotifier
	logger   *logrus.Logger
}

// NewGameService 创建 GameService，notifier 为 nil 时不发送变更通知
func NewGameService(store *repository.Store, notifier interfaces.ChangeNotifier, logger *logrus.Logger) *GameService {
	if notifier == nil {
		notifier = interfaces.NoopNotifier{}
	}
	return &GameService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// List 按名称/平台筛选游戏
func (s *GameService) List(ctx context.Context, filter repository.GameFilter) ([]*GameView, error) {
	games, err := s.store.Games.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询游戏列表失败: %w", err)
	}
	return s.resolver.Expand(ctx, s.store, games)
}

// Get 查询单个游戏
func (s *GameService) Get(ctx context.Context, id uint64) (*GameView, error) {
	return s.get(ctx, s.store, id)
}

func (s *GameService) get(ctx context.Context, store *repository.Store, id uint64) (*GameView, error) {
	g, err := store.Games.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Juego no encontrado")
	}
	views, err := s.resolver.Expand(ctx, store, []*model.Game{g})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Create 解析关联后在同一事务内写入游戏
func (s *GameService) Create(ctx context.Context, in GameInput) (*GameView, error) {
	if err := validateGame(&in); err != nil {
		return nil, err
	}
	var view *GameView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := s.resolver.CheckPlayer(ctx, tx, in.JugadorID); err != nil {
			return err
		}
		categoryIDs, err := s.resolver.ResolveCategories(ctx, tx, in.Categorias)
		if err != nil {
			return err
		}
		g := &model.Game{
			Nombre:     in.Nombre,
			Plataforma: in.Plataforma,
			JugadorID:  in.JugadorID,
		}
		if err := tx.Games.Create(ctx, g, categoryIDs); err != nil {
			return fmt.Errorf("创建游戏失败: %w", err)
		}
		view, err = s.get(ctx, tx, g.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"juego_id": view.ID, "nombre": view.Nombre}).Info("游戏已创建")
	s.notifier.NotifyChange(interfaces.KindGame, view.ID)
	return view, nil
}

// Update 整体替换可变字段，id 本身不可变；id 不存在时不会创建任何行
func (s *GameService) Update(ctx context.Context, id uint64, in GameInput) (*GameView, error) {
	if err := validateGame(&in); err != nil {
		return nil, err
	}
	var view *GameView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Games.GetByID(ctx, id); err != nil {
			return wrapNotFound(err, "Juego no encontrado")
		}
		if err := s.resolver.CheckPlayer(ctx, tx, in.JugadorID); err != nil {
			return err
		}
		categoryIDs, err := s.resolver.ResolveCategories(ctx, tx, in.Categorias)
		if err != nil {
			return err
		}
		g := &model.Game{
			ID:         id,
			Nombre:     in.Nombre,
			Plataforma: in.Plataforma,
			JugadorID:  in.JugadorID,
		}
		if err := tx.Games.Replace(ctx, g, categoryIDs); err != nil {
			return wrapNotFound(err, "Juego no encontrado")
		}
		view, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithField("juego_id", id).Info("游戏已更新")
	s.notifier.NotifyChange(interfaces.KindGame, id)
	return view, nil
}

// Delete 归档后删除：快照写入 juegos_eliminados 与删除在线行在同一事务
func (s *GameService) Delete(ctx context.Context, id uint64) (*model.ArchivedGame, error) {
	archived, err := s.store.Games.Archive(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Juego no encontrado")
	}
	s.logger.WithField("juego_id", id).Info("游戏已归档并删除")
	s.notifier.NotifyChange(interfaces.KindGame, id)
	return archived, nil
}

// ListArchived 已归档游戏，按 id 升序
func (s *GameService) ListArchived(ctx context.Context) ([]*model.ArchivedGame, error) {
	list, err := s.store.Games.ListArchived(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询归档游戏失败: %w", err)
	}
	return list, nil
}

func validateGame(in *GameInput) error {
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Plataforma = strings.TrimSpace(in.Plataforma)
	if in.Nombre == "" {
		return invalid("El campo nombre es obligatorio")
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"GameCatalog/internal/config"
	"GameCatalog/internal/interfaces"
	"GameCatalog/internal/model"
	"GameCatalog/internal/repository"

	"github.com/sirupsen/logrus"
)

// PlayerInput 创建/更新玩家的请求体
type PlayerInput struct {
	Nombre string `json:"nombre" binding:"required"`
	Pais   string `json:"pais"`
	Nivel  string `json:"nivel"`
}

// PlayerDeletion 删除玩家时受影响的游戏
type PlayerDeletion struct {
	JuegosArchivados    []uint64 `json:"juegos_archivados"`
	JuegosDesvinculados []uint64 `json:"juegos_desvinculados"`
}

// PlayerService 玩家增删改查，删除按配置的策略处理其名下游戏
type PlayerService struct {
	store    *repository.Store
	policy   string
	notifier interfaces.ChangeNotifier
	logger   *logrus.Logger
}

// NewPlayerService 创建 PlayerService，policy 为 config.Policy* 之一
func NewPlayerService(store *repository.Store, policy string, notifier interfaces.ChangeNotifier, logger *logrus.Logger) *PlayerService {
	if notifier == nil {
		notifier = interfaces.NoopNotifier{}
	}
	return &PlayerService{
		store:    store,
		policy:   policy,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *PlayerService) List(ctx context.Context) ([]*model.Player, error) {
	list, err := s.store.Players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询玩家列表失败: %w", err)
	}
	return list, nil
}

func (s *PlayerService) Get(ctx context.Context, id uint64) (*model.Player, error) {
	p, err := s.store.Players.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Jugador no encontrado")
	}
	return p, nil
}

func (s *PlayerService) Create(ctx context.Context, in PlayerInput) (*model.Player, error) {
	if err := validatePlayer(&in); err != nil {
		return nil, err
	}
	p := &model.Player{Nombre: in.Nombre, Pais: in.Pais, Nivel: in.Nivel}
	if err := s.store.Players.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("创建玩家失败: %w", err)
	}
	s.logger.WithField("jugador_id", p.ID).Info("玩家已创建")
	s.notifier.NotifyChange(interfaces.KindPlayer, p.ID)
	return p, nil
}

func (s *PlayerService) Update(ctx context.Context, id uint64, in PlayerInput) (*model.Player, error) {
	if err := validatePlayer(&in); err != nil {
		return nil, err
	}
	p := &model.Player{ID: id, Nombre: in.Nombre, Pais: in.Pais, Nivel: in.Nivel}
	if err := s.store.Players.Replace(ctx, p); err != nil {
		return nil, wrapNotFound(err, "Jugador no encontrado")
	}
	s.notifier.NotifyChange(interfaces.KindPlayer, id)
	return s.Get(ctx, id)
}

// Delete 删除玩家：
// restrict 存在名下游戏则拒绝；cascade 先归档名下游戏；nullify 清空游戏的 jugador_id
func (s *PlayerService) Delete(ctx context.Context, id uint64) (*PlayerDeletion, error) {
	result := &PlayerDeletion{JuegosArchivados: []uint64{}, JuegosDesvinculados: []uint64{}}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Players.GetByID(ctx, id); err != nil {
			return wrapNotFound(err, "Jugador no encontrado")
		}
		gameIDs, err := tx.Games.ListIDsByPlayer(ctx, id)
		if err != nil {
			return err
		}
		if len(gameIDs) > 0 {
			switch s.policy {
			case config.PolicyCascade:
				for _, gid := range gameIDs {
					if _, err := tx.Games.Archive(ctx, gid); err != nil {
						return fmt.Errorf("归档游戏 %d 失败: %w", gid, err)
					}
				}
				result.JuegosArchivados = gameIDs
			case config.PolicyNullify:
				if err := tx.Games.ClearPlayer(ctx, id); err != nil {
					return err
				}
				result.JuegosDesvinculados = gameIDs
			default:
				return conflict(fmt.Sprintf("El jugador %d tiene %d juego(s) asociados", id, len(gameIDs)), nil)
			}
		}
		return wrapNotFound(tx.Players.Delete(ctx, id), "Jugador no encontrado")
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"jugador_id": id,
		"policy":     s.policy,
		"archivados": len(result.JuegosArchivados),
		"nullified":  len(result.JuegosDesvinculados),
	}).Info("玩家已删除")
	s.notifier.NotifyChange(interfaces.KindPlayer, id)
	return result, nil
}

func validatePlayer(in *PlayerInput) error {
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Nombre == "" {
		return invalid("El campo nombre es obligatorio")
	}
	return nil
}

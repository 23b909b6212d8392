package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"GameCatalog/internal/config"
	"GameCatalog/internal/interfaces"
	"GameCatalog/internal/model"
	"GameCatalog/internal/repository"

	"github.com/sirupsen/logrus"
)

// CategoryInput 创建/更新分类的请求体
type CategoryInput struct {
	Nombre      string `json:"nombre" binding:"required"`
	Descripcion string `json:"descripcion"`
}

// CategoryService 分类增删改查。分类名称唯一，重复返回冲突
type CategoryService struct {
	store    *repository.Store
	policy   string
	notifier interfaces.ChangeNotifier
	logger   *logrus.Logger
}

func NewCategoryService(store *repository.Store, policy string, notifier interfaces.ChangeNotifier, logger *logrus.Logger) *CategoryService {
	if notifier == nil {
		notifier = interfaces.NoopNotifier{}
	}
	return &CategoryService{
		store:    store,
		policy:   policy,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	list, err := s.store.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}
	return list, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint64) (*model.Category, error) {
	c, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Categoría no encontrada")
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := validateCategory(&in); err != nil {
		return nil, err
	}
	c := &model.Category{Nombre: in.Nombre, Descripcion: in.Descripcion}
	if err := s.store.Categories.Create(ctx, c); err != nil {
		return nil, duplicateName(err, in.Nombre)
	}
	s.logger.WithField("categoria_id", c.ID).Info("分类已创建")
	s.notifier.NotifyChange(interfaces.KindCategory, c.ID)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint64, in CategoryInput) (*model.Category, error) {
	if err := validateCategory(&in); err != nil {
		return nil, err
	}
	c := &model.Category{ID: id, Nombre: in.Nombre, Descripcion: in.Descripcion}
	if err := s.store.Categories.Replace(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Categoría no encontrada")
		}
		return nil, duplicateName(err, in.Nombre)
	}
	s.notifier.NotifyChange(interfaces.KindCategory, id)
	return s.Get(ctx, id)
}

// Delete 删除分类：restrict 存在关联则拒绝；cascade / nullify 只删除关联，游戏保留
func (s *CategoryService) Delete(ctx context.Context, id uint64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Categories.GetByID(ctx, id); err != nil {
			return wrapNotFound(err, "Categoría no encontrada")
		}
		n, err := tx.Categories.CountLinks(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			if s.policy != config.PolicyCascade && s.policy != config.PolicyNullify {
				return conflict(fmt.Sprintf("La categoría %d está asignada a %d juego(s)", id, n), nil)
			}
			if err := tx.Categories.DeleteLinks(ctx, id); err != nil {
				return err
			}
		}
		return wrapNotFound(tx.Categories.Delete(ctx, id), "Categoría no encontrada")
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"categoria_id": id, "policy": s.policy}).Info("分类已删除")
	s.notifier.NotifyChange(interfaces.KindCategory, id)
	return nil
}

func duplicateName(err error, name string) error {
	if errors.Is(err, repository.ErrConflict) {
		return conflict(fmt.Sprintf("Ya existe una categoría con nombre %q", name), err)
	}
	return err
}

func validateCategory(in *CategoryInput) error {
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Nombre == "" {
		return invalid("El campo nombre es obligatorio")
	}
	return checkCategoryName(in.Nombre)
}

// checkCategoryName 报表用 | 拼接分类名称，名称里不能再出现 |
func checkCategoryName(name string) error {
	if strings.Contains(name, reportListSep) {
		return invalid(fmt.Sprintf("El nombre de la categoría %q no puede contener %q", name, reportListSep))
	}
	return nil
}

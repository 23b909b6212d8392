package repository

import (
	"context"

	"GameCatalog/internal/model"

	"gorm.io/gorm"
)

// PlayerRepository 玩家仓储
type PlayerRepository interface {
	Create(ctx context.Context, p *model.Player) error
	GetByID(ctx context.Context, id uint64) (*model.Player, error)
	// GetByIDs 批量查询，不存在的 id 直接忽略
	GetByIDs(ctx context.Context, ids []uint64) ([]*model.Player, error)
	List(ctx context.Context) ([]*model.Player, error)
	// Replace 整体替换可变字段，id 不存在返回 ErrNotFound
	Replace(ctx context.Context, p *model.Player) error
	Delete(ctx context.Context, id uint64) error
}

type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository 创建玩家仓储
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, p *model.Player) error {
	p.ID = 0
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *playerRepository) GetByID(ctx context.Context, id uint64) (*model.Player, error) {
	var p model.Player
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *playerRepository) GetByIDs(ctx context.Context, ids []uint64) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}
	var list []*model.Player
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

func (r *playerRepository) List(ctx context.Context) ([]*model.Player, error) {
	var list []*model.Player
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

func (r *playerRepository) Replace(ctx context.Context, p *model.Player) error {
	res := r.db.WithContext(ctx).Model(&model.Player{}).
		Where("id = ?", p.ID).
		Select("nombre", "pais", "nivel", "updated_at").
		Updates(p)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *playerRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Player{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"

	"GameCatalog/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository 分类仓储（含游戏-分类关联的分类侧操作）
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	GetByIDs(ctx context.Context, ids []uint64) ([]*model.Category, error)
	// GetByNames 按名称精确匹配，缺失的名称不报错
	GetByNames(ctx context.Context, names []string) ([]*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
	Replace(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uint64) error
	// CountLinks 引用该分类的游戏数量
	CountLinks(ctx context.Context, categoryID uint64) (int64, error)
	// DeleteLinks 删除该分类的全部关联，游戏本身保留
	DeleteLinks(ctx context.Context, categoryID uint64) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	c.ID = 0
	return translateError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *categoryRepository) GetByIDs(ctx context.Context, ids []uint64) ([]*model.Category, error) {
	if len(ids) == 0 {
		return []*model.Category{}, nil
	}
	var list []*model.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

func (r *categoryRepository) GetByNames(ctx context.Context, names []string) ([]*model.Category, error) {
	if len(names) == 0 {
		return []*model.Category{}, nil
	}
	var list []*model.Category
	if err := r.db.WithContext(ctx).Where("nombre IN ?", names).Order("id ASC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var list []*model.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

func (r *categoryRepository) Replace(ctx context.Context, c *model.Category) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", c.ID).
		Select("nombre", "descripcion", "updated_at").
		Updates(c)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) CountLinks(ctx context.Context, categoryID uint64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.GameCategory{}).Where("categoria_id = ?", categoryID).Count(&n).Error; err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (r *categoryRepository) DeleteLinks(ctx context.Context, categoryID uint64) error {
	return translateError(r.db.WithContext(ctx).Where("categoria_id = ?", categoryID).Delete(&model.GameCategory{}).Error)
}

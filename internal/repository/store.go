package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 聚合所有实体仓储，持有同一个 *gorm.DB（或同一个事务）
type Store struct {
	db         *gorm.DB
	Players    PlayerRepository
	Categories CategoryRepository
	Games      GameRepository
}

// NewStore 创建 Store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Players:    NewPlayerRepository(db),
		Categories: NewCategoryRepository(db),
		Games:      NewGameRepository(db),
	}
}

// Transaction 在单个事务内执行 fn，fn 返回错误则整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"GameCatalog/internal/model"

	"gorm.io/gorm"
)

// GameFilter 游戏列表筛选，字段为空表示不限制，多个条件为 AND
type GameFilter struct {
	Nombre     string  // 名称子串，大小写不敏感（含重音字母），通配符按字面匹配
	Plataforma string  // 平台子串，大小写不敏感
	JugadorID  *uint64 // 所属玩家
}

// GameRepository 游戏仓储（含关联表和归档表）
type GameRepository interface {
	List(ctx context.Context, filter GameFilter) ([]*model.Game, error)
	GetByID(ctx context.Context, id uint64) (*model.Game, error)
	// Create 分配新 id 并写入游戏及其分类关联
	Create(ctx context.Context, g *model.Game, categoryIDs []uint64) error
	// Replace 整体替换游戏字段与分类关联，id 不存在返回 ErrNotFound
	Replace(ctx context.Context, g *model.Game, categoryIDs []uint64) error
	// Archive 在同一事务内写入归档快照并删除在线行
	Archive(ctx context.Context, id uint64) (*model.ArchivedGame, error)
	ListArchived(ctx context.Context) ([]*model.ArchivedGame, error)
	GetArchivedByID(ctx context.Context, id uint64) (*model.ArchivedGame, error)
	// CategoryIDsByGames 返回 game_id -> 分类 id 列表（升序）
	CategoryIDsByGames(ctx context.Context, gameIDs []uint64) (map[uint64][]uint64, error)
	ListIDsByPlayer(ctx context.Context, playerID uint64) ([]uint64, error)
	// ClearPlayer 把引用该玩家的游戏的 jugador_id 置空
	ClearPlayer(ctx context.Context, playerID uint64) error
}

type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository 创建游戏仓储
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) List(ctx context.Context, filter GameFilter) ([]*model.Game, error) {
	db := r.db.WithContext(ctx).Model(&model.Game{})
	if filter.JugadorID != nil {
		db = db.Where("jugador_id = ?", *filter.JugadorID)
	}
	var list []*model.Game
	if err := db.Order("id ASC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	if filter.Nombre == "" && filter.Plataforma == "" {
		return list, nil
	}

	// SQLite 的 LOWER() 只处理 ASCII，名称/平台的子串匹配放在 Go 侧做，重音字母同样不区分大小写
	nombre := strings.ToLower(filter.Nombre)
	plataforma := strings.ToLower(filter.Plataforma)
	matched := make([]*model.Game, 0, len(list))
	for _, g := range list {
		if containsFold(g.Nombre, nombre) && containsFold(g.Plataforma, plataforma) {
			matched = append(matched, g)
		}
	}
	return matched, nil
}

// containsFold 大小写不敏感的子串匹配，sub 须已转小写；sub 为空时恒为 true
func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), sub)
}

func (r *gameRepository) GetByID(ctx context.Context, id uint64) (*model.Game, error) {
	var g model.Game
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, translateError(err)
	}
	return &g, nil
}

func (r *gameRepository) Create(ctx context.Context, g *model.Game, categoryIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextGameID(tx)
		if err != nil {
			return err
		}
		g.ID = id
		if err := tx.Create(g).Error; err != nil {
			return translateError(err)
		}
		return insertLinks(tx, g.ID, categoryIDs)
	})
}

// nextGameID 取在线表与归档表的最大 id + 1，保证 id 不被复用
func nextGameID(tx *gorm.DB) (uint64, error) {
	var liveMax, archivedMax uint64
	if err := tx.Model(&model.Game{}).Select("COALESCE(MAX(id), 0)").Scan(&liveMax).Error; err != nil {
		return 0, fmt.Errorf("查询最大游戏ID失败: %w", err)
	}
	if err := tx.Model(&model.ArchivedGame{}).Select("COALESCE(MAX(id), 0)").Scan(&archivedMax).Error; err != nil {
		return 0, fmt.Errorf("查询最大归档ID失败: %w", err)
	}
	return max(liveMax, archivedMax) + 1, nil
}

func insertLinks(tx *gorm.DB, gameID uint64, categoryIDs []uint64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]model.GameCategory, 0, len(categoryIDs))
	seen := make(map[uint64]struct{}, len(categoryIDs))
	for _, cid := range categoryIDs {
		if _, ok := seen[cid]; ok {
			continue
		}
		seen[cid] = struct{}{}
		links = append(links, model.GameCategory{JuegoID: gameID, CategoriaID: cid})
	}
	if err := tx.Create(&links).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *gameRepository) Replace(ctx context.Context, g *model.Game, categoryIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Game{}).
			Where("id = ?", g.ID).
			Select("nombre", "plataforma", "jugador_id", "updated_at").
			Updates(g)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("juego_id = ?", g.ID).Delete(&model.GameCategory{}).Error; err != nil {
			return translateError(err)
		}
		return insertLinks(tx, g.ID, categoryIDs)
	})
}

func (r *gameRepository) Archive(ctx context.Context, id uint64) (*model.ArchivedGame, error) {
	var archived *model.ArchivedGame
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.Game
		if err := tx.Where("id = ?", id).First(&g).Error; err != nil {
			return translateError(err)
		}
		names := []string{}
		if err := tx.Model(&model.Category{}).
			Joins("JOIN juego_categorias ON juego_categorias.categoria_id = categorias.id").
			Where("juego_categorias.juego_id = ?", id).
			Order("categorias.id ASC").
			Pluck("categorias.nombre", &names).Error; err != nil {
			return translateError(err)
		}
		archived = &model.ArchivedGame{
			ID:          g.ID,
			Nombre:      g.Nombre,
			Plataforma:  g.Plataforma,
			JugadorID:   g.JugadorID,
			Categorias:  names,
			EliminadoEn: time.Now().UTC(),
		}
		if err := tx.Create(archived).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("juego_id = ?", id).Delete(&model.GameCategory{}).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.Game{}).Error; err != nil {
			return translateError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}

func (r *gameRepository) ListArchived(ctx context.Context) ([]*model.ArchivedGame, error) {
	var list []*model.ArchivedGame
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

func (r *gameRepository) GetArchivedByID(ctx context.Context, id uint64) (*model.ArchivedGame, error) {
	var a model.ArchivedGame
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

func (r *gameRepository) CategoryIDsByGames(ctx context.Context, gameIDs []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(gameIDs))
	if len(gameIDs) == 0 {
		return result, nil
	}
	var links []model.GameCategory
	if err := r.db.WithContext(ctx).
		Where("juego_id IN ?", gameIDs).
		Order("juego_id ASC, categoria_id ASC").
		Find(&links).Error; err != nil {
		return nil, translateError(err)
	}
	for _, l := range links {
		result[l.JuegoID] = append(result[l.JuegoID], l.CategoriaID)
	}
	return result, nil
}

func (r *gameRepository) ListIDsByPlayer(ctx context.Context, playerID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).Model(&model.Game{}).
		Where("jugador_id = ?", playerID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

func (r *gameRepository) ClearPlayer(ctx context.Context, playerID uint64) error {
	return translateError(r.db.WithContext(ctx).Model(&model.Game{}).
		Where("jugador_id = ?", playerID).
		Updates(map[string]interface{}{"jugador_id": nil, "updated_at": time.Now()}).Error)
}

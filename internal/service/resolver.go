package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"GameCatalog/internal/model"
	"GameCatalog/internal/repository"
)

// GameView 对外返回的游戏结构，玩家与分类均已展开
type GameView struct {
	ID         uint64            `json:"id"`
	Nombre     string            `json:"nombre"`
	Plataforma string            `json:"plataforma"`
	JugadorID  *uint64           `json:"jugador_id"`
	Jugador    *model.Player     `json:"jugador"`
	Categorias []*model.Category `json:"categorias"`
}

// RelationResolver 负责 game→player 与 game↔categories 的读展开和写解析，不做缓存
type RelationResolver struct{}

// Expand 批量展开游戏的玩家与分类，保持输入顺序
func (RelationResolver) Expand(ctx context.Context, store *repository.Store, games []*model.Game) ([]*GameView, error) {
	views := make([]*GameView, 0, len(games))
	if len(games) == 0 {
		return views, nil
	}

	gameIDs := make([]uint64, 0, len(games))
	playerIDs := make([]uint64, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
		if g.JugadorID != nil {
			playerIDs = append(playerIDs, *g.JugadorID)
		}
	}

	players, err := store.Players.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("查询玩家失败: %w", err)
	}
	playerByID := make(map[uint64]*model.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	linkMap, err := store.Games.CategoryIDsByGames(ctx, gameIDs)
	if err != nil {
		return nil, fmt.Errorf("查询分类关联失败: %w", err)
	}
	var categoryIDs []uint64
	for _, ids := range linkMap {
		categoryIDs = append(categoryIDs, ids...)
	}
	categories, err := store.Categories.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	categoryByID := make(map[uint64]*model.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	for _, g := range games {
		v := &GameView{
			ID:         g.ID,
			Nombre:     g.Nombre,
			Plataforma: g.Plataforma,
			JugadorID:  g.JugadorID,
			Categorias: []*model.Category{},
		}
		if g.JugadorID != nil {
			v.Jugador = playerByID[*g.JugadorID]
		}
		for _, cid := range linkMap[g.ID] {
			if c, ok := categoryByID[cid]; ok {
				v.Categorias = append(v.Categorias, c)
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// CheckPlayer 校验玩家引用存在；nil 表示不关联玩家
func (RelationResolver) CheckPlayer(ctx context.Context, store *repository.Store, playerID *uint64) error {
	if playerID == nil {
		return nil
	}
	if _, err := store.Players.GetByID(ctx, *playerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return conflict(fmt.Sprintf("El jugador %d no existe", *playerID), nil)
		}
		return err
	}
	return nil
}

// ResolveCategories 把分类名称解析为 id，不存在的分类按名称创建。
// 名称去首尾空白、去重，空名称忽略；含 | 的名称为校验错误
func (RelationResolver) ResolveCategories(ctx context.Context, store *repository.Store, names []string) ([]uint64, error) {
	wanted := normalizeNames(names)
	if len(wanted) == 0 {
		return nil, nil
	}
	for _, name := range wanted {
		if err := checkCategoryName(name); err != nil {
			return nil, err
		}
	}
	existing, err := store.Categories.GetByNames(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	idByName := make(map[string]uint64, len(existing))
	for _, c := range existing {
		idByName[c.Nombre] = c.ID
	}

	ids := make([]uint64, 0, len(wanted))
	for _, name := range wanted {
		id, ok := idByName[name]
		if !ok {
			c := &model.Category{Nombre: name}
			if err := store.Categories.Create(ctx, c); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return nil, conflict(fmt.Sprintf("No se pudo crear la categoría %q", name), err)
				}
				return nil, fmt.Errorf("创建分类失败: %w", err)
			}
			id = c.ID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

package service

import (
	"testing"

	"GameCatalog/internal/config"
	"GameCatalog/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameLifecycleScenario(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)

	ana, err := f.players.Create(f.ctx(), PlayerInput{Nombre: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ana.ID)

	chess, err := f.games.Create(f.ctx(), GameInput{
		Nombre:     "Chess",
		JugadorID:  ptr(ana.ID),
		Categorias: []string{"Strategy"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), chess.ID)
	require.NotNil(t, chess.Jugador)
	assert.Equal(t, "Ana", chess.Jugador.Nombre)
	require.Len(t, chess.Categorias, 1)
	assert.Equal(t, "Strategy", chess.Categorias[0].Nombre)

	got, err := f.games.Get(f.ctx(), chess.ID)
	require.NoError(t, err)
	assert.Equal(t, chess.Nombre, got.Nombre)
	require.NotNil(t, got.Jugador)
	assert.Equal(t, ana.ID, got.Jugador.ID)
	require.Len(t, got.Categorias, 1)
	assert.Equal(t, chess.Categorias[0].ID, got.Categorias[0].ID)

	archived, err := f.games.Delete(f.ctx(), chess.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), archived.ID)
	assert.Equal(t, "Chess", archived.Nombre)
	require.NotNil(t, archived.JugadorID)
	assert.Equal(t, ana.ID, *archived.JugadorID)

	_, err = f.games.Get(f.ctx(), chess.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := f.games.ListArchived(f.ctx())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Chess", list[0].Nombre)
}

func TestGameCreateResolvesCategoryNames(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)
	existing, err := f.categories.Create(f.ctx(), CategoryInput{Nombre: "Strategy", Descripcion: "think"})
	require.NoError(t, err)

	g, err := f.games.Create(f.ctx(), GameInput{
		Nombre:     "  Go  ",
		Categorias: []string{"Strategy", " Board ", "Strategy", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Go", g.Nombre)
	assert.Nil(t, g.Jugador)
	require.Len(t, g.Categorias, 2)
	assert.Equal(t, existing.ID, g.Categorias[0].ID)
	assert.Equal(t, "think", g.Categorias[0].Descripcion)
	assert.Equal(t, "Board", g.Categorias[1].Nombre)

	cats, err := f.categories.List(f.ctx())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestGameCreateRejectsUnknownPlayer(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)

	_, err := f.games.Create(f.ctx(), GameInput{Nombre: "Chess", JugadorID: ptr(uint64(7)), Categorias: []string{"Strategy"}})
	assert.ErrorIs(t, err, repository.ErrConflict)

	// 事务回滚：分类也不应被创建
	cats, err := f.categories.List(f.ctx())
	require.NoError(t, err)
	assert.Empty(t, cats)
	assert.Zero(t, f.notifier.count())
}

func TestGameCreateRequiresName(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)
	_, err := f.games.Create(f.ctx(), GameInput{Nombre: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGameUpdate(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)
	ana, err := f.players.Create(f.ctx(), PlayerInput{Nombre: "Ana"})
	require.NoError(t, err)
	g, err := f.games.Create(f.ctx(), GameInput{Nombre: "Chess", Plataforma: "PC", JugadorID: ptr(ana.ID), Categorias: []string{"Strategy"}})
	require.NoError(t, err)

	updated, err := f.games.Update(f.ctx(), g.ID, GameInput{Nombre: "Chess960", Categorias: []string{"Variant"}})
	require.NoError(t, err)
	assert.Equal(t, g.ID, updated.ID)
	assert.Equal(t, "Chess960", updated.Nombre)
	assert.Empty(t, updated.Plataforma, "update replaces every field")
	assert.Nil(t, updated.JugadorID)
	require.Len(t, updated.Categorias, 1)
	assert.Equal(t, "Variant", updated.Categorias[0].Nombre)
}

func TestGameUpdateMissingReturnsNotFound(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)

	_, err := f.games.Update(f.ctx(), 5, GameInput{Nombre: "Ghost", Categorias: []string{"Horror"}})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	games, err := f.games.List(f.ctx(), repository.GameFilter{})
	require.NoError(t, err)
	assert.Empty(t, games)
	cats, err := f.categories.List(f.ctx())
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestGameDeleteMissingReturnsNotFound(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)
	_, err := f.games.Delete(f.ctx(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	archived, err := f.games.ListArchived(f.ctx())
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestGameIDsNeverReused(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)
	var last uint64
	for i := 0; i < 5; i++ {
		g, err := f.games.Create(f.ctx(), GameInput{Nombre: "G"})
		require.NoError(t, err)
		assert.Greater(t, g.ID, last)
		last = g.ID
	}
	_, err := f.games.Delete(f.ctx(), last)
	require.NoError(t, err)

	g, err := f.games.Create(f.ctx(), GameInput{Nombre: "After"})
	require.NoError(t, err)
	assert.Greater(t, g.ID, last)
}

func TestGameMutationsNotify(t *testing.T) {
	f := newFixture(t, config.PolicyRestrict, config.PolicyRestrict)
	g, err := f.games.Create(f.ctx(), GameInput{Nombre: "Chess"})
	require.NoError(t, err)
	_, err = f.games.Update(f.ctx(), g.ID, GameInput{Nombre: "Chess 2"})
	require.NoError(t, err)
	_, err = f.games.Delete(f.ctx(), g.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, f.notifier.count())
}

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"GameCatalog/internal/config"
	"GameCatalog/internal/database"
	"GameCatalog/internal/repository"
	"GameCatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, mutate ...func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			LogLevel: "silent",
		},
		Report: config.ReportConfig{Path: filepath.Join(t.TempDir(), "reporte.csv")},
		Lifecycle: config.LifecycleConfig{
			PlayerDeletePolicy:   config.PolicyRestrict,
			CategoryDeletePolicy: config.PolicyRestrict,
		},
	}
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.Open(cfg.Database, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := repository.NewStore(db)
	reports := service.NewReportService(store, cfg.Report.Path, logger)
	return NewRouter(cfg, store, reports, nil, logger)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type gameResp struct {
	ID         uint64  `json:"id"`
	Nombre     string  `json:"nombre"`
	Plataforma string  `json:"plataforma"`
	JugadorID  *uint64 `json:"jugador_id"`
	Jugador    *struct {
		ID     uint64 `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"jugador"`
	Categorias []struct {
		ID     uint64 `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"categorias"`
}

type archivedResp struct {
	ID         uint64   `json:"id"`
	Nombre     string   `json:"nombre"`
	Plataforma string   `json:"plataforma"`
	JugadorID  *uint64  `json:"jugador_id"`
	Categorias []string `json:"categorias"`
}

func TestGameLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/jugadores", gin.H{"nombre": "Ana", "pais": "ES"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	player := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, player["id"])

	w = doJSON(t, r, http.MethodPost, "/juegos", gin.H{"nombre": "Chess", "jugador_id": 1, "categorias": []string{"Strategy"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[gameResp](t, w)
	assert.Equal(t, uint64(1), created.ID)
	require.NotNil(t, created.Jugador)
	assert.Equal(t, "Ana", created.Jugador.Nombre)
	require.Len(t, created.Categorias, 1)
	assert.Equal(t, "Strategy", created.Categorias[0].Nombre)

	w = doJSON(t, r, http.MethodGet, "/juegos/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[gameResp](t, w))

	w = doJSON(t, r, http.MethodDelete, "/juegos/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Juego con ID 1 eliminado correctamente")

	w = doJSON(t, r, http.MethodGet, "/juegos/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Juego no encontrado")

	w = doJSON(t, r, http.MethodGet, "/juegos_eliminados", nil)
	require.Equal(t, http.StatusOK, w.Code)
	archived := decode[[]archivedResp](t, w)
	require.Len(t, archived, 1)
	assert.Equal(t, uint64(1), archived[0].ID)
	assert.Equal(t, "Chess", archived[0].Nombre)
	require.NotNil(t, archived[0].JugadorID)
	assert.Equal(t, uint64(1), *archived[0].JugadorID)
	assert.Equal(t, []string{"Strategy"}, archived[0].Categorias)

	w = doJSON(t, r, http.MethodDelete, "/juegos/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteArchivesPreDeleteFields(t *testing.T) {
	r := newTestRouter(t)
	for i := 1; i <= 5; i++ {
		w := doJSON(t, r, http.MethodPost, "/juegos", gin.H{"nombre": "Game", "plataforma": "PC"})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := doJSON(t, r, http.MethodPut, "/juegos/5", gin.H{"nombre": "Zelda", "plataforma": "Switch", "categorias": []string{"Adventure"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/juegos/5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/juegos/5", nil).Code)
	archived := decode[[]archivedResp](t, doJSON(t, r, http.MethodGet, "/juegos_eliminados", nil))
	require.Len(t, archived, 1)
	assert.Equal(t, archivedResp{ID: 5, Nombre: "Zelda", Plataforma: "Switch", Categorias: []string{"Adventure"}}, archived[0])

	w = doJSON(t, r, http.MethodPost, "/juegos", gin.H{"nombre": "Next"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint64(6), decode[gameResp](t, w).ID)
}

func TestListGamesFilter(t *testing.T) {
	r := newTestRouter(t)
	for _, g := range []gin.H{
		{"nombre": "The Legend of Zelda", "plataforma": "Switch"},
		{"nombre": "ZELDA II", "plataforma": "NES"},
		{"nombre": "Chess", "plataforma": "PC"},
		{"nombre": "Ñandú Ágil", "plataforma": "Móvil"},
	} {
		require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/juegos", g).Code)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"The Legend of Zelda", "ZELDA II", "Chess", "Ñandú Ágil"}},
		{query: "?nombre=Zelda", want: []string{"The Legend of Zelda", "ZELDA II"}},
		{query: "?nombre=zelda&plataforma=nes", want: []string{"ZELDA II"}},
		{query: "?plataforma=xbox", want: []string{}},
		{query: "?nombre=" + url.QueryEscape("Ñandú"), want: []string{"Ñandú Ágil"}},
		{query: "?nombre=" + url.QueryEscape("ñandú ágil"), want: []string{"Ñandú Ágil"}},
		{query: "?plataforma=" + url.QueryEscape("MÓVIL"), want: []string{"Ñandú Ágil"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/juegos"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			games := decode[[]gameResp](t, w)
			names := make([]string, 0, len(games))
			for _, g := range games {
				names = append(names, g.Nombre)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "update missing game", method: http.MethodPut, path: "/juegos/9", body: gin.H{"nombre": "x"}, want: http.StatusNotFound},
		{name: "invalid id", method: http.MethodGet, path: "/juegos/abc", want: http.StatusBadRequest},
		{name: "zero id", method: http.MethodGet, path: "/juegos/0", want: http.StatusBadRequest},
		{name: "missing nombre", method: http.MethodPost, path: "/juegos", body: gin.H{"plataforma": "PC"}, want: http.StatusBadRequest},
		{name: "unknown player ref", method: http.MethodPost, path: "/juegos", body: gin.H{"nombre": "x", "jugador_id": 3}, want: http.StatusConflict},
		{name: "missing player", method: http.MethodGet, path: "/jugadores/1", want: http.StatusNotFound},
		{name: "missing category", method: http.MethodDelete, path: "/categorias/1", want: http.StatusNotFound},
		{name: "category name with list separator", method: http.MethodPost, path: "/categorias", body: gin.H{"nombre": "a|b"}, want: http.StatusBadRequest},
		{name: "game category with list separator", method: http.MethodPost, path: "/juegos", body: gin.H{"nombre": "x", "categorias": []string{"a|b"}}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}

	w := doJSON(t, r, http.MethodGet, "/juegos", nil)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()), "failed writes leave no rows")
}

func TestMalformedBodyIsRejected(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/juegos", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Solicitud inválida")

	w = doJSON(t, r, http.MethodPost, "/jugadores", gin.H{"pais": "ES"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Solicitud inválida")
}

func TestCategoryEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/categorias", gin.H{"nombre": "Strategy", "descripcion": "think"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/categorias", gin.H{"nombre": "Strategy"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Strategy")

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/juegos", gin.H{"nombre": "Chess", "categorias": []string{"Strategy"}}).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, r, http.MethodDelete, "/categorias/1", nil).Code)

	w = doJSON(t, r, http.MethodGet, "/categorias", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestPlayerDeleteCascadeOverHTTP(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) { c.Lifecycle.PlayerDeletePolicy = config.PolicyCascade })

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/jugadores", gin.H{"nombre": "Ana"}).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/juegos", gin.H{"nombre": "Chess", "jugador_id": 1}).Code)

	w := doJSON(t, r, http.MethodDelete, "/jugadores/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assert.Equal(t, []any{float64(1)}, body["juegos_archivados"])

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/juegos/1", nil).Code)
	assert.Len(t, decode[[]archivedResp](t, doJSON(t, r, http.MethodGet, "/juegos_eliminados", nil)), 1)
}

func TestReportDownload(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/jugadores", gin.H{"nombre": "Ana"}).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/juegos", gin.H{"nombre": "Chess", "plataforma": "PC", "jugador_id": 1, "categorias": []string{"Strategy", "Board"}}).Code)

	w := doJSON(t, r, http.MethodGet, "/reporte", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reporte.csv")
	assert.Equal(t, "ID,Nombre,Plataforma,Categorías,Jugador\n1,Chess,PC,Strategy|Board,Ana\n", w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

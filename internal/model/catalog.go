package model

import (
	"time"

	"gorm.io/datatypes"
)

// Player 玩家，一个玩家拥有零到多个游戏
type Player struct {
	ID        uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Nombre    string    `json:"nombre" gorm:"column:nombre;type:varchar(128);not null;comment:玩家名称"`
	Pais      string    `json:"pais" gorm:"column:pais;type:varchar(64);comment:国家"`
	Nivel     string    `json:"nivel" gorm:"column:nivel;type:varchar(32);comment:等级"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"column:updated_at;autoUpdateTime"`
}

// Category 游戏分类，名称全局唯一
type Category struct {
	ID          uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Nombre      string    `json:"nombre" gorm:"column:nombre;type:varchar(128);uniqueIndex:uq_categoria_nombre;not null;comment:分类名称"`
	Descripcion string    `json:"descripcion" gorm:"column:descripcion;type:text;comment:分类描述"`
	CreatedAt   time.Time `json:"-" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"-" gorm:"column:updated_at;autoUpdateTime"`
}

// Game 游戏。ID 由仓储在事务内按 max(juegos ∪ juegos_eliminados)+1 分配，不使用自增
type Game struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Nombre     string    `gorm:"column:nombre;type:varchar(256);not null;index"`
	Plataforma string    `gorm:"column:plataforma;type:varchar(64);index"`
	JugadorID  *uint64   `gorm:"column:jugador_id;type:bigint;index"` // 可空，所属玩家
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// GameCategory 游戏与分类的多对多关联，(juego_id, categoria_id) 即主键
type GameCategory struct {
	JuegoID     uint64 `gorm:"column:juego_id;primaryKey;autoIncrement:false"`
	CategoriaID uint64 `gorm:"column:categoria_id;primaryKey;autoIncrement:false;index"`
}

// ArchivedGame 删除时的游戏快照，只插入一次，之后不再修改
type ArchivedGame struct {
	ID          uint64                      `json:"id" gorm:"column:id;primaryKey;autoIncrement:false;comment:原游戏ID"`
	Nombre      string                      `json:"nombre" gorm:"column:nombre;type:varchar(256);not null"`
	Plataforma  string                      `json:"plataforma" gorm:"column:plataforma;type:varchar(64)"`
	JugadorID   *uint64                     `json:"jugador_id" gorm:"column:jugador_id;type:bigint"`
	Categorias  datatypes.JSONSlice[string] `json:"categorias" gorm:"column:categorias;comment:删除时的分类名称"`
	EliminadoEn time.Time                   `json:"eliminado_en" gorm:"column:eliminado_en;not null"`
}

func (Player) TableName() string       { return "jugadores" }
func (Category) TableName() string     { return "categorias" }
func (Game) TableName() string         { return "juegos" }
func (GameCategory) TableName() string { return "juego_categorias" }
func (ArchivedGame) TableName() string { return "juegos_eliminados" }

// AllModels 按依赖顺序返回需要迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&Player{},
		&Category{},
		&Game{},
		&GameCategory{},
		&ArchivedGame{},
	}
}

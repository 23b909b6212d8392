package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 目标行不存在
	ErrNotFound = errors.New("record not found")
	// ErrConflict 违反唯一约束或引用约束
	ErrConflict = errors.New("constraint violation")
)

// translateError 把驱动层错误归一到仓储的哨兵错误
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Join(ErrConflict, err)
	}
	// 老版本 postgres 驱动不实现 ErrorTranslator
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "foreign key constraint") {
		return errors.Join(ErrConflict, err)
	}
	return err
}

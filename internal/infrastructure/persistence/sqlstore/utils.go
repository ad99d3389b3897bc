package sqlstore

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// likeEscape LIKE转义字符(三种数据库都支持ESCAPE '!')
const likeEscape = "!"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 子串匹配的LIKE模式,转义用户输入中的通配符
func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}

// isDuplicateError 判断是否为唯一索引冲突
// TranslateError开启时返回gorm.ErrDuplicatedKey,否则按各数据库的错误信息判断:
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/invoicing/internal/domain/book"
)

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. fn收到的仓储绑定在事务DB上,不再通过context传递事务
// 3. fn返回error时ROLLBACK,返回nil时COMMIT
type TxManager struct {
	db *gorm.DB
}

var _ book.TxManager = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context, repo book.Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &bookRepository{db: tx})
	})
}

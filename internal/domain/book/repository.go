package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于用内存实现做单元测试,不依赖具体数据库
// 3. 查询不到单本图书时返回ErrBookNotFound,列表查询返回空切片
type Repository interface {
	// FindByISBN 根据ISBN精确查找
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// FindByISBNs 批量查找,只返回存在的图书
	FindByISBNs(ctx context.Context, isbns []string) ([]*Book, error)

	// FindByTitle 书名模糊查询
	FindByTitle(ctx context.Context, title string) ([]*Book, error)

	// FindByAuthor 作者模糊查询
	FindByAuthor(ctx context.Context, author string) ([]*Book, error)

	// FindByCategory 分类模糊查询(匹配存储的分类字符串)
	FindByCategory(ctx context.Context, label string) ([]*Book, error)

	// CreateBatch 批量插入,按传入顺序写入
	CreateBatch(ctx context.Context, books []*Book) error

	// Save 保存可变字段(分类、价格、库存、销量)
	Save(ctx context.Context, book *Book) error

	// LockByISBN 悲观锁查询(SELECT ... FOR UPDATE)
	// 必须在事务内调用,锁在事务结束时释放
	LockByISBN(ctx context.Context, isbn string) (*Book, error)

	// TopBySell 按销量降序取前limit本,销量相同按ISBN升序
	TopBySell(ctx context.Context, limit int) ([]*Book, error)
}

// TxManager 事务边界
// fn收到的repo绑定在当前事务上,fn返回error时回滚全部写入,返回nil时提交
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context, repo book.Repository) error {
//	    b, err := repo.LockByISBN(ctx, isbn)
//	    if err != nil {
//	        return err // 回滚
//	    }
//	    if err := b.Restock(10); err != nil {
//	        return err
//	    }
//	    return repo.Save(ctx, b) // nil则提交
//	})
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/invoicing/internal/domain/book"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责领域实体与GORM模型之间的转换
// 3. 数据库错误转换为业务错误或包装为内部错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// FindByISBN 根据ISBN精确查找
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByISBNs 批量查找
func (r *bookRepository) FindByISBNs(ctx context.Context, isbns []string) ([]*book.Book, error) {
	if len(isbns) == 0 {
		return nil, nil
	}
	var models []BookModel
	if err := r.db.WithContext(ctx).Where("isbn IN ?", isbns).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "批量查询图书失败")
	}
	return toBookEntities(models), nil
}

// FindByTitle 书名模糊查询
func (r *bookRepository) FindByTitle(ctx context.Context, title string) ([]*book.Book, error) {
	return r.findLike(ctx, "title", title)
}

// FindByAuthor 作者模糊查询
func (r *bookRepository) FindByAuthor(ctx context.Context, author string) ([]*book.Book, error) {
	return r.findLike(ctx, "author", author)
}

// FindByCategory 分类模糊查询
func (r *bookRepository) FindByCategory(ctx context.Context, label string) ([]*book.Book, error) {
	return r.findLike(ctx, "categories", label)
}

// findLike column LIKE %value% ,按插入时间排序
func (r *bookRepository) findLike(ctx context.Context, column, value string) ([]*book.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Where(column+" LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(value)).
		Order("created_at ASC").
		Order("isbn ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntities(models), nil
}

// CreateBatch 批量插入
func (r *bookRepository) CreateBatch(ctx context.Context, books []*book.Book) error {
	if len(books) == 0 {
		return nil
	}

	// 1. 领域实体 → GORM模型
	models := make([]BookModel, len(books))
	for i, b := range books {
		models[i] = toBookModel(b)
	}

	// 2. 一条INSERT写入整批
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrInvalidField
		}
		return apperrors.Wrap(err, "批量上架失败")
	}

	// 3. 回填时间戳
	for i, b := range books {
		b.CreatedAt = models[i].CreatedAt
		b.UpdatedAt = models[i].UpdatedAt
	}
	return nil
}

// Save 保存可变字段
// 图书在事务内已被锁定,这里只按主键更新
func (r *bookRepository) Save(ctx context.Context, b *book.Book) error {
	err := r.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("isbn = ?", b.ISBN).
		Updates(map[string]interface{}{
			"categories": b.Categories.String(),
			"price":      b.Price,
			"stock":      b.Stock,
			"sell":       b.Sell,
			"updated_at": b.UpdatedAt,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "保存图书失败")
	}
	return nil
}

// LockByISBN 悲观锁查询
// SELECT * FROM books WHERE isbn = ? FOR UPDATE
// 必须在TxManager提供的事务仓储上调用;SQLite没有行锁,方言会忽略FOR UPDATE
func (r *bookRepository) LockByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("isbn = ?", isbn).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// TopBySell 畅销榜
func (r *bookRepository) TopBySell(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Order("sell DESC").
		Order("isbn ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询畅销榜失败")
	}
	return toBookEntities(models), nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) BookModel {
	stock := b.Stock
	return BookModel{
		ISBN:       b.ISBN,
		Title:      b.Title,
		Author:     b.Author,
		Categories: b.Categories.String(),
		Price:      b.Price,
		Stock:      &stock,
		Sell:       b.Sell,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体(NULL库存视为0)
func toBookEntity(model *BookModel) *book.Book {
	stock := 0
	if model.Stock != nil {
		stock = *model.Stock
	}
	return &book.Book{
		ISBN:       model.ISBN,
		Title:      model.Title,
		Author:     model.Author,
		Categories: book.ParseCategories(model.Categories),
		Price:      model.Price,
		Stock:      stock,
		Sell:       model.Sell,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}

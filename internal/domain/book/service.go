package book

import (
	"context"
	"errors"
	"strings"
)

// TopSellersLimit 畅销榜条数
const TopSellersLimit = 5

// Query 图书搜索条件
// 优先级:ISBN > 书名 > 作者,只使用第一个非空的条件
type Query struct {
	ISBN   string
	Title  string
	Author string
}

// IsEmpty 三个条件都为空
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.ISBN) == "" &&
		strings.TrimSpace(q.Title) == "" &&
		strings.TrimSpace(q.Author) == ""
}

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装上架、分类、库存、价格等业务规则
// 2. 写操作都在TxManager提供的事务内完成
// 3. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// AddBooks 批量上架
	// 业务规则:
	// - 列表不能为空
	// - ISBN/书名/作者不能为空,至少一个分类,价格>=0
	// - 批次内ISBN不能重复,也不能与已有图书重复
	// - 任意一本不合法则整批拒绝,返回*RejectedError
	AddBooks(ctx context.Context, candidates []*Book) ([]*Book, error)

	// UpdateCategory 切换分类
	UpdateCategory(ctx context.Context, isbn string, labels []string) (*Book, error)

	// FindByCategory 多分类并集查询,按ISBN去重,保持首次出现顺序
	FindByCategory(ctx context.Context, labels []string) ([]*Book, error)

	// Search 按ISBN/书名/作者查询
	Search(ctx context.Context, q Query) ([]*Book, error)

	// Purchase 进货
	Purchase(ctx context.Context, isbn string, quantity int) (*Book, error)

	// Renew 调价
	Renew(ctx context.Context, isbn string, price int64) (*Book, error)

	// TopSellers 畅销榜
	TopSellers(ctx context.Context, limit int) ([]*Book, error)
}

// service 领域服务实现
type service struct {
	repo Repository
	tx   TxManager
}

// NewService 创建图书领域服务
func NewService(repo Repository, tx TxManager) Service {
	return &service{repo: repo, tx: tx}
}

// AddBooks 批量上架
func (s *service) AddBooks(ctx context.Context, candidates []*Book) ([]*Book, error) {
	// 1. 空列表
	if len(candidates) == 0 {
		return nil, ErrEmptyInput
	}

	// 2. 字段校验 + 批次内重复
	rejected := newRejectSet()
	seen := make(map[string]struct{}, len(candidates))
	isbns := make([]string, 0, len(candidates))
	for _, b := range candidates {
		if b == nil {
			return nil, ErrInvalidField
		}
		if err := b.Validate(); err != nil {
			rejected.add(b)
			continue
		}
		if _, dup := seen[b.ISBN]; dup {
			rejected.add(b)
			continue
		}
		seen[b.ISBN] = struct{}{}
		isbns = append(isbns, b.ISBN)
	}

	err := s.tx.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		// 3. 与已有图书重复
		existing, err := repo.FindByISBNs(ctx, isbns)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			taken := make(map[string]struct{}, len(existing))
			for _, b := range existing {
				taken[b.ISBN] = struct{}{}
			}
			for _, b := range candidates {
				if _, ok := taken[b.ISBN]; ok {
					rejected.add(b)
				}
			}
		}
		if !rejected.empty() {
			return &RejectedError{Rejected: rejected.inOrder(candidates)}
		}

		// 4. 整批写入
		return repo.CreateBatch(ctx, candidates)
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// UpdateCategory 切换分类
func (s *service) UpdateCategory(ctx context.Context, isbn string, labels []string) (*Book, error) {
	var updated *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		// 1. 锁定图书(图书不存在优先于标签不合法)
		b, err := repo.LockByISBN(ctx, isbn)
		if err != nil {
			return err
		}

		// 2. 校验标签,切换并保存
		if err := b.ToggleCategories(labels); err != nil {
			return err
		}
		if err := repo.Save(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindByCategory 多分类并集查询
func (s *service) FindByCategory(ctx context.Context, labels []string) ([]*Book, error) {
	if err := ValidateLabels(labels); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var result []*Book
	for _, label := range labels {
		books, err := s.repo.FindByCategory(ctx, strings.TrimSpace(label))
		if err != nil {
			return nil, err
		}
		for _, b := range books {
			if _, ok := seen[b.ISBN]; ok {
				continue
			}
			seen[b.ISBN] = struct{}{}
			result = append(result, b)
		}
	}

	if len(result) == 0 {
		return nil, ErrCategoryNotFound
	}
	return result, nil
}

// Search 按ISBN/书名/作者查询
func (s *service) Search(ctx context.Context, q Query) ([]*Book, error) {
	isbn := strings.TrimSpace(q.ISBN)
	title := strings.TrimSpace(q.Title)
	author := strings.TrimSpace(q.Author)

	switch {
	case isbn != "":
		b, err := s.repo.FindByISBN(ctx, isbn)
		if err != nil {
			if errors.Is(err, ErrBookNotFound) {
				return nil, ErrISBNNotMatched
			}
			return nil, err
		}
		return []*Book{b}, nil

	case title != "":
		books, err := s.repo.FindByTitle(ctx, title)
		return orNotFound(books, err, ErrTitleNotMatched)

	case author != "":
		books, err := s.repo.FindByAuthor(ctx, author)
		return orNotFound(books, err, ErrAuthorNotMatched)

	default:
		return nil, ErrMissingQueryParam
	}
}

// orNotFound 列表查询为空时返回指定的未找到错误
func orNotFound(books []*Book, err error, notFound error) ([]*Book, error) {
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, notFound
	}
	return books, nil
}

// Purchase 进货
func (s *service) Purchase(ctx context.Context, isbn string, quantity int) (*Book, error) {
	return s.mutate(ctx, isbn, func(b *Book) error {
		return b.Restock(quantity)
	})
}

// Renew 调价
func (s *service) Renew(ctx context.Context, isbn string, price int64) (*Book, error) {
	return s.mutate(ctx, isbn, func(b *Book) error {
		return b.Reprice(price)
	})
}

// mutate 锁定 → 修改 → 保存
func (s *service) mutate(ctx context.Context, isbn string, change func(b *Book) error) (*Book, error) {
	var updated *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.LockByISBN(ctx, isbn)
		if err != nil {
			return err
		}
		if err := change(b); err != nil {
			return err
		}
		if err := repo.Save(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TopSellers 畅销榜
func (s *service) TopSellers(ctx context.Context, limit int) ([]*Book, error) {
	if limit <= 0 {
		limit = TopSellersLimit
	}
	return s.repo.TopBySell(ctx, limit)
}

// rejectSet 被拒图书集合(同一个指针只记一次)
type rejectSet map[*Book]struct{}

func newRejectSet() rejectSet {
	return make(rejectSet)
}

func (r rejectSet) add(b *Book) {
	r[b] = struct{}{}
}

func (r rejectSet) empty() bool {
	return len(r) == 0
}

// inOrder 按候选列表顺序输出被拒图书
func (r rejectSet) inOrder(candidates []*Book) []*Book {
	out := make([]*Book, 0, len(r))
	for _, b := range candidates {
		if _, ok := r[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

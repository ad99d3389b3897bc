// Package booktest 提供图书仓储的内存实现,供领域层和应用层测试使用
package booktest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xiebiao/invoicing/internal/domain/book"
)

// Memory 内存图书仓储
// 1. 读写都返回副本,调用方修改实体后必须Save才会生效
// 2. Transaction串行执行,fn返回error时恢复到事务开始前的快照
type Memory struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	books map[string]*book.Book
	order []string // 插入顺序,模拟数据库的自然顺序

	saves int
}

// NewMemory 创建内存仓储,可预置图书
func NewMemory(seed ...*book.Book) *Memory {
	m := &Memory{books: make(map[string]*book.Book)}
	for _, b := range seed {
		m.put(clone(b))
	}
	return m
}

var (
	_ book.Repository = (*Memory)(nil)
	_ book.TxManager  = (*Memory)(nil)
)

// Get 读取当前状态(测试断言用)
func (m *Memory) Get(isbn string) (*book.Book, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[isbn]
	if !ok {
		return nil, false
	}
	return clone(b), true
}

// Len 图书数量
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.books)
}

// Saves Save被调用的次数
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Transaction 快照 → 执行 → 失败时还原
func (m *Memory) Transaction(ctx context.Context, fn func(ctx context.Context, repo book.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	snapshot := make(map[string]*book.Book, len(m.books))
	for k, b := range m.books {
		snapshot[k] = clone(b)
	}
	order := append([]string(nil), m.order...)
	m.mu.RUnlock()

	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.books = snapshot
		m.order = order
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *Memory) FindByISBN(_ context.Context, isbn string) (*book.Book, error) {
	if b, ok := m.Get(isbn); ok {
		return b, nil
	}
	return nil, book.ErrBookNotFound
}

func (m *Memory) FindByISBNs(_ context.Context, isbns []string) ([]*book.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*book.Book
	for _, isbn := range isbns {
		if b, ok := m.books[isbn]; ok {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (m *Memory) FindByTitle(_ context.Context, title string) ([]*book.Book, error) {
	return m.filter(func(b *book.Book) bool { return strings.Contains(b.Title, title) }), nil
}

func (m *Memory) FindByAuthor(_ context.Context, author string) ([]*book.Book, error) {
	return m.filter(func(b *book.Book) bool { return strings.Contains(b.Author, author) }), nil
}

func (m *Memory) FindByCategory(_ context.Context, label string) ([]*book.Book, error) {
	return m.filter(func(b *book.Book) bool { return strings.Contains(b.Categories.String(), label) }), nil
}

func (m *Memory) CreateBatch(_ context.Context, books []*book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range books {
		if _, ok := m.books[b.ISBN]; ok {
			return book.ErrInvalidField
		}
	}
	for _, b := range books {
		m.put(clone(b))
	}
	return nil
}

func (m *Memory) Save(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[b.ISBN]; !ok {
		return book.ErrBookNotFound
	}
	m.books[b.ISBN] = clone(b)
	m.saves++
	return nil
}

// LockByISBN 内存实现由txMu保证串行,这里等同于FindByISBN
func (m *Memory) LockByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return m.FindByISBN(ctx, isbn)
}

func (m *Memory) TopBySell(_ context.Context, limit int) ([]*book.Book, error) {
	all := m.filter(func(*book.Book) bool { return true })
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Sell != all[j].Sell {
			return all[i].Sell > all[j].Sell
		}
		return all[i].ISBN < all[j].ISBN
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *Memory) filter(match func(b *book.Book) bool) []*book.Book {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*book.Book
	for _, isbn := range m.order {
		if b := m.books[isbn]; match(b) {
			out = append(out, clone(b))
		}
	}
	return out
}

func (m *Memory) put(b *book.Book) {
	if _, ok := m.books[b.ISBN]; !ok {
		m.order = append(m.order, b.ISBN)
	}
	m.books[b.ISBN] = b
}

func clone(b *book.Book) *book.Book {
	c := *b
	c.Categories = append(book.Categories(nil), b.Categories...)
	return &c
}

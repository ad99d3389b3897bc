package book

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/invoicing/internal/domain/book"
)

// Field 视图字段
type Field uint8

const (
	FieldISBN Field = 1 << iota
	FieldTitle
	FieldAuthor
	FieldCategories
	FieldPrice
	FieldStock
	FieldSell
)

// 各接口返回的字段集合
// 顾客看不到库存和销量,店员查询额外返回库存和销量
const (
	ConsumerFields = FieldISBN | FieldTitle | FieldAuthor | FieldPrice
	ShopFields     = ConsumerFields | FieldStock | FieldSell
	CategoryFields = ConsumerFields | FieldStock
	RankingFields  = ConsumerFields
	DetailFields   = ShopFields | FieldCategories
)

// Has 是否包含字段
func (f Field) Has(field Field) bool {
	return f&field != 0
}

// BookView 图书视图DTO
// 未选中的字段为零值,序列化时省略;数值字段用指针区分"未选中"和0
type BookView struct {
	ISBN       string   `json:"isbn,omitempty"`
	Title      string   `json:"title,omitempty"`
	Author     string   `json:"author,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Price      *int64   `json:"price,omitempty"`      // 价格(分)
	PriceYuan  string   `json:"price_yuan,omitempty"` // 价格(元),如"59.00"
	Stock      *int     `json:"stock,omitempty"`
	Sell       *int     `json:"sell,omitempty"`
}

// Project 按字段集合投影
func Project(b *book.Book, fields Field) BookView {
	var v BookView
	if fields.Has(FieldISBN) {
		v.ISBN = b.ISBN
	}
	if fields.Has(FieldTitle) {
		v.Title = b.Title
	}
	if fields.Has(FieldAuthor) {
		v.Author = b.Author
	}
	if fields.Has(FieldCategories) {
		v.Categories = append([]string{}, b.Categories...)
	}
	if fields.Has(FieldPrice) {
		price := b.Price
		v.Price = &price
		v.PriceYuan = FormatYuan(price)
	}
	if fields.Has(FieldStock) {
		stock := b.Stock
		v.Stock = &stock
	}
	if fields.Has(FieldSell) {
		sell := b.Sell
		v.Sell = &sell
	}
	return v
}

// ProjectAll 批量投影,保持顺序
func ProjectAll(books []*book.Book, fields Field) []BookView {
	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = Project(b, fields)
	}
	return views
}

// FormatYuan 分 → 元(保留两位小数)
func FormatYuan(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseYuan 元 → 分,最多两位小数
func ParseYuan(yuan string) (int64, error) {
	d, err := decimal.NewFromString(yuan)
	if err != nil {
		return 0, book.ErrInvalidPrice
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, book.ErrInvalidPrice
	}
	return cents.IntPart(), nil
}

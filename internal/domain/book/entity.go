package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ISBN是业务主键,创建后不可修改
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. Sell是累计销量,只增不减
type Book struct {
	ISBN       string     // ISBN号(国际标准书号)
	Title      string     // 书名
	Author     string     // 作者
	Categories Categories // 分类标签
	Price      int64      // 价格(单位:分)
	Stock      int        // 库存数量
	Sell       int        // 累计销量
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBook 创建新图书(工厂方法)
// 新书上架时库存与销量均为0,通过进货增加库存
func NewBook(isbn, title, author string, categories Categories, price int64) *Book {
	now := time.Now()
	return &Book{
		ISBN:       isbn,
		Title:      title,
		Author:     author,
		Categories: categories,
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate 上架字段校验
// 业务规则:ISBN/书名/作者不能为空,至少一个分类,价格>=0
func (b *Book) Validate() error {
	if strings.TrimSpace(b.ISBN) == "" ||
		strings.TrimSpace(b.Title) == "" ||
		strings.TrimSpace(b.Author) == "" {
		return ErrInvalidField
	}
	if len(b.Categories) == 0 {
		return ErrInvalidField
	}
	if b.Price < 0 {
		return ErrInvalidField
	}
	return nil
}

// ToggleCategories 切换分类(领域行为)
func (b *Book) ToggleCategories(labels []string) error {
	if err := ValidateLabels(labels); err != nil {
		return err
	}
	b.Categories = b.Categories.Toggle(labels)
	b.UpdatedAt = time.Now()
	return nil
}

// Restock 进货(领域行为)
// 数量可以为负(盘点更正),但进货后库存不能为负数
func (b *Book) Restock(quantity int) error {
	if b.Stock+quantity < 0 {
		return ErrInsufficientStock
	}
	b.Stock += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// Reprice 更新价格(领域行为)
// 业务规则:价格必须>=0
func (b *Book) Reprice(price int64) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	b.Price = price
	b.UpdatedAt = time.Now()
	return nil
}

// SellUnits 售出(领域行为)
// 扣减库存并累加销量,调用方负责数量上限校验
func (b *Book) SellUnits(quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity > b.Stock {
		return ErrInsufficientStock
	}
	b.Stock -= quantity
	b.Sell += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// ValidateLabels 分类标签列表校验
// 列表不能为空,标签不能为空白,也不能包含存储分隔符
func ValidateLabels(labels []string) error {
	if len(labels) == 0 {
		return ErrInvalidLabels
	}
	for _, label := range labels {
		if strings.TrimSpace(label) == "" || strings.Contains(label, CategoryDelimiter) {
			return ErrInvalidLabels
		}
	}
	return nil
}

package sale

import (
	"context"
	"errors"

	"github.com/xiebiao/invoicing/internal/domain/book"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// Handler 销售事务处理器
// 设计说明:
// 1. 事务边界由构造参数显式传入,整批明细在同一个Transaction内处理
// 2. 任意一行失败直接返回error,事务回滚此前各行已保存的库存/销量
// 3. 处理器本身不做补偿,也不持有跨请求的状态
type Handler struct {
	tx     book.TxManager
	limits Limits
}

// NewHandler 创建销售事务处理器
func NewHandler(tx book.TxManager, limits Limits) *Handler {
	return &Handler{tx: tx, limits: limits}
}

// Limits 当前限购规则
func (h *Handler) Limits() Limits {
	return h.limits
}

// Handle 按顺序处理销售明细
// 每一行:
//  1. 锁定读取图书,不存在 → INVALID_ISBN
//  2. 0 <= 数量 <= 每行上限 → INVALID_QUANTITY
//  3. 数量 <= 当前库存 → INSUFFICIENT_STOCK
//  4. 累计数量 <= 每单上限 → ORDER_LIMIT_EXCEEDED
//  5. 小计 = 单价 * 数量
//  6. 扣库存、加销量,立即保存
//  7. 追加明细结果
//
// 同一ISBN出现在多行时复用事务内的工作副本,后面的行看到的是已扣减的库存
// 明细为空直接返回ErrEmptySale(EMPTY_INPUT),不开启事务
func (h *Handler) Handle(ctx context.Context, lines []Line) ([]LineResult, error) {
	if len(lines) == 0 {
		return nil, ErrEmptySale
	}

	var results []LineResult
	err := h.tx.Transaction(ctx, func(ctx context.Context, repo book.Repository) error {
		working := make(map[string]*book.Book, len(lines))
		results = make([]LineResult, 0, len(lines))
		totalCount := 0

		for i, line := range lines {
			n := i + 1

			// 1. 解析ISBN
			b, ok := working[line.ISBN]
			if !ok {
				locked, err := repo.LockByISBN(ctx, line.ISBN)
				if err != nil {
					if errors.Is(err, book.ErrBookNotFound) {
						return apperrors.Newf(apperrors.ErrCodeInvalidISBN, "第%d行ISBN不存在: %s", n, line.ISBN)
					}
					return err
				}
				b = locked
				working[line.ISBN] = b
			}

			// 2. 单行数量
			if err := CheckQuantity(n, line.Quantity, h.limits); err != nil {
				return err
			}

			// 3. 库存
			if err := CheckStock(n, line.ISBN, line.Quantity, b.Stock); err != nil {
				return err
			}

			// 4. 整单累计
			totalCount += line.Quantity
			if err := CheckOrderTotal(n, totalCount, h.limits); err != nil {
				return err
			}

			// 5. 小计(使用锁定时的单价)
			lineTotal := b.Price * int64(line.Quantity)

			// 6. 扣减库存、累加销量并保存
			if err := b.SellUnits(line.Quantity); err != nil {
				return err
			}
			if err := repo.Save(ctx, b); err != nil {
				return err
			}

			// 7. 明细结果
			results = append(results, LineResult{
				ISBN:      b.ISBN,
				Title:     b.Title,
				Author:    b.Author,
				Price:     b.Price,
				Quantity:  line.Quantity,
				LineTotal: lineTotal,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

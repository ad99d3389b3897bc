package sale

import (
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// CheckQuantity 单行数量: 0 <= quantity <= MaxPerLine
func CheckQuantity(line int, quantity int, limits Limits) error {
	if quantity < 0 || quantity > limits.MaxPerLine {
		return apperrors.Newf(apperrors.ErrCodeInvalidQuantity,
			"第%d行购买数量不合法: %d (每行0-%d本)", line, quantity, limits.MaxPerLine)
	}
	return nil
}

// CheckStock 购买数量不能超过当前库存
func CheckStock(line int, isbn string, quantity, stock int) error {
	if quantity > stock {
		return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
			"第%d行库存不足: %s 当前库存%d,需要%d", line, isbn, stock, quantity)
	}
	return nil
}

// CheckOrderTotal 累计数量不能超过每单上限
func CheckOrderTotal(line int, total int, limits Limits) error {
	if total > limits.MaxPerOrder {
		return apperrors.Newf(apperrors.ErrCodeOrderLimitExceeded,
			"第%d行后累计%d本,超过每单%d本的限制", line, total, limits.MaxPerOrder)
	}
	return nil
}

package handler

import (
	"github.com/gin-gonic/gin"

	appsale "github.com/xiebiao/invoicing/internal/application/sale"
	"github.com/xiebiao/invoicing/internal/interface/http/dto"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
	"github.com/xiebiao/invoicing/pkg/response"
)

// SaleHandler 收银HTTP处理器
type SaleHandler struct {
	sellBooks *appsale.SellBooksUseCase
}

// NewSaleHandler 创建收银处理器
func NewSaleHandler(sellBooks *appsale.SellBooksUseCase) *SaleHandler {
	return &SaleHandler{sellBooks: sellBooks}
}

// Sales 收银
// @Summary      收银
// @Description  每行最多3本,整单最多3本,库存不足时整单失败且不扣减任何库存
// @Tags         店铺
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SalesRequest true "收银明细"
// @Success      200 {object} response.Response{data=appsale.SellResponse} "销售成功"
// @Failure      200 {object} response.Response "INVALID_ISBN / INVALID_QUANTITY / INSUFFICIENT_STOCK / ORDER_LIMIT_EXCEEDED"
// @Router       /api/v1/shop/sales [post]
func (h *SaleHandler) Sales(c *gin.Context) {
	var req dto.SalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	lines := make([]appsale.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = appsale.LineInput{ISBN: l.ISBN, Quantity: l.Quantity}
	}

	result, err := h.sellBooks.Execute(c.Request.Context(), appsale.SellRequest{Lines: lines})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result)
}

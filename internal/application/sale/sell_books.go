package sale

import (
	"context"
	"time"

	"go.uber.org/zap"

	appbook "github.com/xiebiao/invoicing/internal/application/book"
	"github.com/xiebiao/invoicing/internal/domain/sale"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
	"github.com/xiebiao/invoicing/pkg/metrics"
	"github.com/xiebiao/invoicing/pkg/tracing"
)

const tracerName = "invoicing/application/sale"

// MsgSold 销售成功提示
const MsgSold = "销售成功"

// SellBooksUseCase 收银用例
// 设计说明:
// 1. 校验和扣减库存由sale.Handler在一个事务内完成,失败时整单回滚
// 2. 用例负责生成销售单号、记录指标和日志
// 3. 事务提交后发布sale.completed事件,发布失败只记录日志
type SellBooksUseCase struct {
	handler   *sale.Handler
	publisher sale.EventPublisher
	logger    *zap.Logger
}

// NewSellBooksUseCase 创建收银用例
func NewSellBooksUseCase(handler *sale.Handler, publisher sale.EventPublisher, logger *zap.Logger) *SellBooksUseCase {
	return &SellBooksUseCase{
		handler:   handler,
		publisher: publisher,
		logger:    logger,
	}
}

// SellRequest 收银请求DTO
type SellRequest struct {
	Lines []LineInput
}

// LineInput 收银明细
type LineInput struct {
	ISBN     string
	Quantity int
}

// LineView 明细结果DTO
type LineView struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Price     int64  `json:"price"` // 成交单价(分)
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"` // 小计(分)
}

// SellResponse 收银响应DTO
type SellResponse struct {
	ReceiptNo string     `json:"receipt_no"`
	Results   []LineView `json:"results"`
	Total     int64      `json:"total"`      // 订单总额(分)
	TotalYuan string     `json:"total_yuan"` // 订单总额(元)
	Units     int        `json:"units"`
	Message   string     `json:"message"`
}

// Execute 执行收银
func (uc *SellBooksUseCase) Execute(ctx context.Context, req SellRequest) (resp *SellResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SellBooks")
	defer func() { tracing.EndSpan(span, err) }()

	metrics.SalesInProgress.Inc()
	start := time.Now()
	defer func() {
		metrics.SalesInProgress.Dec()
		metrics.SaleDuration.Observe(time.Since(start).Seconds())
		reason := ""
		if err != nil {
			reason = apperrors.GetAppError(err).Reason()
		}
		metrics.SalesTotal.WithLabelValues(metrics.Result(err), reason).Inc()
	}()

	// 1. DTO → 领域对象
	lines := make([]sale.Line, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = sale.Line{ISBN: l.ISBN, Quantity: l.Quantity}
	}

	// 2. 事务内逐行校验并扣减库存
	results, err := uc.handler.Handle(ctx, lines)
	if err != nil {
		uc.logger.Info("收银失败",
			zap.Int("lines", len(lines)),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}

	// 3. 生成销售单
	receipt := sale.NewReceipt(sale.GenerateReceiptNo(), results)
	metrics.BooksSoldTotal.Add(float64(receipt.Units))
	metrics.SaleAmountYuan.Observe(float64(receipt.Total) / 100)

	uc.logger.Info("收银成功",
		zap.String("receipt_no", receipt.No),
		zap.Int("units", receipt.Units),
		zap.Int64("total", receipt.Total),
		zap.String("trace_id", tracing.ExtractTraceID(ctx)),
	)

	// 4. 发布事件(事务已提交,失败不影响结果)
	if pubErr := uc.publisher.PublishSold(ctx, sale.NewSoldEvent(receipt)); pubErr != nil {
		uc.logger.Warn("销售事件发布失败", zap.String("receipt_no", receipt.No), zap.Error(pubErr))
	}

	return toSellResponse(receipt), nil
}

func toSellResponse(r *sale.Receipt) *SellResponse {
	views := make([]LineView, len(r.Lines))
	for i, l := range r.Lines {
		views[i] = LineView{
			ISBN:      l.ISBN,
			Title:     l.Title,
			Author:    l.Author,
			Price:     l.Price,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		}
	}
	return &SellResponse{
		ReceiptNo: r.No,
		Results:   views,
		Total:     r.Total,
		TotalYuan: appbook.FormatYuan(r.Total),
		Units:     r.Units,
		Message:   MsgSold,
	}
}

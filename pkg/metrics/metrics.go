// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类:
//   - HTTP:请求总数、耗时、处理中的请求数(由gin中间件记录)
//   - 业务:收银成功/失败次数、售出册数、销售金额、进货与调价次数
//   - 消息:销售事件发布结果
//
// 使用示例:
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.SalesTotal.WithLabelValues(metrics.ResultSuccess).Inc()
//	metrics.BooksSoldTotal.Add(float64(units))
//
// 命名规范:Counter以_total结尾,Histogram以单位结尾(_seconds、_yuan)
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签:method、path(路由模板)、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// SalesTotal 收银次数
	// 标签:result(success/failure)、reason(失败类别,成功时为空)
	SalesTotal *prometheus.CounterVec

	// SaleDuration 收银耗时(含事务)
	SaleDuration prometheus.Histogram

	// SalesInProgress 正在处理的收银请求数
	SalesInProgress prometheus.Gauge

	// BooksSoldTotal 累计售出册数
	BooksSoldTotal prometheus.Counter

	// SaleAmountYuan 单笔销售金额分布(元)
	SaleAmountYuan prometheus.Histogram

	// InventoryAdjustmentsTotal 库存与价格调整次数
	// 标签:kind(purchase/renew/category)、result
	InventoryAdjustmentsTotal *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数
	// 标签:exchange、routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 可重复调用,只注册一次
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	SalesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoicing_sales_total",
			Help: "收银次数",
		},
		[]string{"result", "reason"},
	)

	SaleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "invoicing_sale_duration_seconds",
			Help: "收银耗时（秒）",
			// 收银包含行锁和多次写入
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	SalesInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "invoicing_sales_in_progress",
			Help: "正在处理的收银请求数",
		},
	)

	BooksSoldTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoicing_books_sold_total",
			Help: "累计售出册数",
		},
	)

	SaleAmountYuan = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "invoicing_sale_amount_yuan",
			Help:    "单笔销售金额（元）",
			Buckets: []float64{10, 50, 100, 200, 500, 1000},
		},
	)

	InventoryAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoicing_inventory_adjustments_total",
			Help: "库存、价格与分类调整次数",
		},
		[]string{"kind", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
}

// Result 把err转换为result标签
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

package sale

import "time"

// Line 销售明细(请求)
type Line struct {
	ISBN     string
	Quantity int
}

// LineResult 销售明细结果
// Price是成交时的单价快照,LineTotal = Price * Quantity
type LineResult struct {
	ISBN      string
	Title     string
	Author    string
	Price     int64
	Quantity  int
	LineTotal int64
}

// Receipt 一笔成功的销售
type Receipt struct {
	No     string
	Lines  []LineResult
	Total  int64 // 订单总金额(分)
	Units  int   // 总册数
	SoldAt time.Time
}

// NewReceipt 汇总明细生成销售单
func NewReceipt(no string, lines []LineResult) *Receipt {
	r := &Receipt{
		No:     no,
		Lines:  lines,
		SoldAt: time.Now(),
	}
	for _, l := range lines {
		r.Total += l.LineTotal
		r.Units += l.Quantity
	}
	return r
}

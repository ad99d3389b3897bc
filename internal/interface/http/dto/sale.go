package dto

// SalesRequest 收银请求
type SalesRequest struct {
	Lines []SaleLine `json:"lines"`
}

// SaleLine 收银明细
type SaleLine struct {
	ISBN     string `json:"isbn" example:"9787536692930"`
	Quantity int    `json:"quantity" example:"1"`
}

package dto

// AddBooksRequest 批量上架请求
// 字段校验由领域层完成,便于返回被拒的条目
type AddBooksRequest struct {
	Items []BookItem `json:"items"`
}

// BookItem 上架图书
type BookItem struct {
	ISBN       string   `json:"isbn" example:"9787536692930"`
	Title      string   `json:"title" example:"三体"`
	Author     string   `json:"author" example:"刘慈欣"`
	Categories []string `json:"categories" example:"科幻,小说"`
	Price      int64    `json:"price" example:"2300"` // 价格(分)
}

// UpdateCategoryRequest 分类切换请求
// labels为空由领域层校验,图书不存在优先返回
type UpdateCategoryRequest struct {
	Labels []string `json:"labels"`
}

// PurchaseRequest 进货请求
// 数量可以为负数(盘点更正)
type PurchaseRequest struct {
	Quantity *int `json:"quantity" binding:"required" example:"10"`
}

// RenewRequest 调价请求
type RenewRequest struct {
	Price *int64 `json:"price" binding:"required" example:"2500"` // 新价格(分)
}

// SearchQuery 查询参数,优先级 isbn > title > author
// book是title的别名
type SearchQuery struct {
	ISBN   string `form:"isbn"`
	Title  string `form:"title"`
	Book   string `form:"book"`
	Author string `form:"author"`
}

// TitleOrBook 书名参数
func (q SearchQuery) TitleOrBook() string {
	if q.Title != "" {
		return q.Title
	}
	return q.Book
}

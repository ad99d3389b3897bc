package book

// 成功提示
const (
	MsgAdded           = "上架成功"
	MsgCategoryUpdated = "分类更新成功"
	MsgQueried         = "查询成功"
	MsgPurchased       = "进货成功"
	MsgRenewed         = "调价成功"
)

// ItemsResponse 列表响应
type ItemsResponse struct {
	Items   []BookView `json:"items"`
	Message string     `json:"message"`
}

// ItemResponse 单本图书响应
type ItemResponse struct {
	Item    BookView `json:"item"`
	Message string   `json:"message"`
}

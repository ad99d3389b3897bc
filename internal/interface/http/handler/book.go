package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/invoicing/internal/application/book"
	"github.com/xiebiao/invoicing/internal/interface/http/dto"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
	"github.com/xiebiao/invoicing/pkg/response"
)

// BookHandler 图书HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应,不包含业务逻辑
type BookHandler struct {
	addBooks       *appbook.AddBooksUseCase
	updateCategory *appbook.UpdateCategoryUseCase
	search         *appbook.SearchUseCase
	purchase       *appbook.PurchaseUseCase
	renew          *appbook.RenewUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	addBooks *appbook.AddBooksUseCase,
	updateCategory *appbook.UpdateCategoryUseCase,
	search *appbook.SearchUseCase,
	purchase *appbook.PurchaseUseCase,
	renew *appbook.RenewUseCase,
) *BookHandler {
	return &BookHandler{
		addBooks:       addBooks,
		updateCategory: updateCategory,
		search:         search,
		purchase:       purchase,
		renew:          renew,
	}
}

// AddBooks 批量上架
// @Summary      批量上架
// @Description  任意一本不合法(字段为空、价格为负、ISBN重复)则整批拒绝,data返回被拒的条目
// @Tags         店铺
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddBooksRequest true "上架图书列表"
// @Success      200 {object} response.Response{data=[]appbook.BookView} "上架成功"
// @Failure      200 {object} response.Response{data=[]appbook.BookView} "EMPTY_INPUT / DUPLICATE_OR_INVALID_FIELD"
// @Router       /api/v1/shop/books [post]
func (h *BookHandler) AddBooks(c *gin.Context) {
	var req dto.AddBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	items := make([]appbook.BookInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = appbook.BookInput{
			ISBN:       it.ISBN,
			Title:      it.Title,
			Author:     it.Author,
			Categories: it.Categories,
			Price:      it.Price,
		}
	}

	result, err := h.addBooks.Execute(c.Request.Context(), appbook.AddBooksRequest{Items: items})
	if err != nil {
		response.ErrorWithData(c, err, appbook.RejectedViews(err))
		return
	}
	response.SuccessWithMessage(c, result.Message, result.Items)
}

// UpdateCategory 切换分类
// @Summary      切换分类
// @Description  已有的分类被移除,没有的分类被加入
// @Tags         店铺
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path string true "ISBN"
// @Param        request body dto.UpdateCategoryRequest true "分类列表"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Router       /api/v1/shop/books/{isbn}/categories [patch]
func (h *BookHandler) UpdateCategory(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "分类参数不合法")
		return
	}

	result, err := h.updateCategory.Execute(c.Request.Context(), appbook.UpdateCategoryRequest{
		ISBN:   c.Param("isbn"),
		Labels: req.Labels,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result.Item)
}

// Search 顾客查询
// @Summary      查询图书
// @Description  按ISBN精确查询,或按书名/作者模糊查询(优先级 isbn > title > author),不返回库存和销量
// @Tags         图书
// @Produce      json
// @Param        isbn   query string false "ISBN"
// @Param        title  query string false "书名(别名book)"
// @Param        author query string false "作者"
// @Success      200 {object} response.Response{data=[]appbook.BookView}
// @Router       /api/v1/books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	h.doSearch(c, h.search.Search)
}

// SearchForShop 店员查询
// @Summary      店员查询图书
// @Description  与顾客查询相同,额外返回库存和销量
// @Tags         店铺
// @Produce      json
// @Security     BearerAuth
// @Param        isbn   query string false "ISBN"
// @Param        title  query string false "书名(别名book)"
// @Param        author query string false "作者"
// @Success      200 {object} response.Response{data=[]appbook.BookView}
// @Router       /api/v1/shop/books/search [get]
func (h *BookHandler) SearchForShop(c *gin.Context) {
	h.doSearch(c, h.search.SearchForShop)
}

func (h *BookHandler) doSearch(c *gin.Context, search func(context.Context, appbook.SearchRequest) (*appbook.ItemsResponse, error)) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := search(c.Request.Context(), appbook.SearchRequest{
		ISBN:   q.ISBN,
		Title:  q.TitleOrBook(),
		Author: q.Author,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result.Items)
}

// FindByCategory 多分类查询
// @Summary      按分类查询
// @Description  多个分类取并集,按ISBN去重;支持?category=a&category=b或?category=a,b
// @Tags         图书
// @Produce      json
// @Param        category query []string true "分类" collectionFormat(multi)
// @Success      200 {object} response.Response{data=[]appbook.BookView}
// @Router       /api/v1/books/categories [get]
func (h *BookHandler) FindByCategory(c *gin.Context) {
	var labels []string
	for _, v := range c.QueryArray("category") {
		labels = append(labels, strings.Split(v, ",")...)
	}

	result, err := h.search.FindByCategory(c.Request.Context(), labels)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result.Items)
}

// TopSellers 畅销榜
// @Summary      畅销榜
// @Description  销量前5名,销量相同按ISBN升序
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.BookView}
// @Router       /api/v1/books/top-sellers [get]
func (h *BookHandler) TopSellers(c *gin.Context) {
	views, err := h.search.TopSellers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, appbook.MsgQueried, views)
}

// Purchase 进货
// @Summary      进货
// @Description  库存增加quantity,结果不能小于0
// @Tags         店铺
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path string true "ISBN"
// @Param        request body dto.PurchaseRequest true "进货数量"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Router       /api/v1/shop/books/{isbn}/purchase [post]
func (h *BookHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidQuantity, "数量不合法")
		return
	}

	result, err := h.purchase.Execute(c.Request.Context(), appbook.PurchaseRequest{
		ISBN:     c.Param("isbn"),
		Quantity: *req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result.Item)
}

// Renew 调价
// @Summary      调价
// @Tags         店铺
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path string true "ISBN"
// @Param        request body dto.RenewRequest true "新价格(分)"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Router       /api/v1/shop/books/{isbn}/price [put]
func (h *BookHandler) Renew(c *gin.Context) {
	var req dto.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidPrice, "价格不合法")
		return
	}

	result, err := h.renew.Execute(c.Request.Context(), appbook.RenewRequest{
		ISBN:  c.Param("isbn"),
		Price: *req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result.Message, result.Item)
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	appbook "github.com/xiebiao/invoicing/internal/application/book"
	appsale "github.com/xiebiao/invoicing/internal/application/sale"
	"github.com/xiebiao/invoicing/internal/domain/sale"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// add-book
func newAddBookCommand(app func() *App) *cobra.Command {
	var in appbook.BookInput
	var price string
	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "上架一本新书",
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := appbook.ParseYuan(price)
			if err != nil {
				return err
			}
			in.Price = cents

			resp, err := app().AddBooks.Execute(cmd.Context(), appbook.AddBooksRequest{
				Items: []appbook.BookInput{in},
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&in.ISBN, "isbn", "", "ISBN")
	cmd.Flags().StringVar(&in.Title, "title", "", "书名")
	cmd.Flags().StringVar(&in.Author, "author", "", "作者")
	cmd.Flags().StringSliceVar(&in.Categories, "category", nil, "分类(可重复或逗号分隔)")
	cmd.Flags().StringVar(&price, "price", "0", "价格(元),如59.00")
	return cmd
}

// category <isbn> --label
func newCategoryCommand(app func() *App) *cobra.Command {
	var labels []string
	cmd := &cobra.Command{
		Use:   "category <isbn>",
		Short: "切换图书分类(已有则移除,没有则加入)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app().UpdateCategory.Execute(cmd.Context(), appbook.UpdateCategoryRequest{
				ISBN:   args[0],
				Labels: labels,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringArrayVar(&labels, "label", nil, "分类标签(可重复)")
	return cmd
}

// search
func newSearchCommand(app func() *App) *cobra.Command {
	var req appbook.SearchRequest
	var categories []string
	var shop bool
	var output string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "按ISBN/书名/作者或分类查询图书",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := app().Search

			var resp *appbook.ItemsResponse
			var err error
			switch {
			case len(categories) > 0:
				resp, err = uc.FindByCategory(cmd.Context(), categories)
			case shop:
				resp, err = uc.SearchForShop(cmd.Context(), req)
			default:
				resp, err = uc.Search(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			if output == "table" {
				printBooks(cmd.OutOrStdout(), resp.Items)
				return nil
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&req.ISBN, "isbn", "", "ISBN(精确)")
	cmd.Flags().StringVar(&req.Title, "title", "", "书名(模糊)")
	cmd.Flags().StringVar(&req.Author, "author", "", "作者(模糊)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "分类(多个取并集)")
	cmd.Flags().BoolVar(&shop, "shop", false, "店员视图(含库存和销量)")
	cmd.Flags().StringVar(&output, "output", "json", "输出格式: json | table")
	return cmd
}

// top-sellers
func newTopSellersCommand(app func() *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "top-sellers",
		Short: "畅销榜前5名",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app().Search.TopSellers(cmd.Context())
			if err != nil {
				return err
			}
			if output == "table" {
				printBooks(cmd.OutOrStdout(), items)
				return nil
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&output, "output", "json", "输出格式: json | table")
	return cmd
}

// purchase <isbn> --quantity
func newPurchaseCommand(app func() *App) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "purchase <isbn>",
		Short: "进货(数量可为负,用于盘点更正)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app().Purchase.Execute(cmd.Context(), appbook.PurchaseRequest{
				ISBN:     args[0],
				Quantity: quantity,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 0, "进货数量")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}

// renew <isbn> --price
func newRenewCommand(app func() *App) *cobra.Command {
	var price string
	cmd := &cobra.Command{
		Use:   "renew <isbn>",
		Short: "调整售价",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := appbook.ParseYuan(price)
			if err != nil {
				return err
			}
			resp, err := app().Renew.Execute(cmd.Context(), appbook.RenewRequest{
				ISBN:  args[0],
				Price: cents,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "新价格(元),如45.50")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

// sell --line isbn:qty
func newSellCommand(app func() *App) *cobra.Command {
	var lines []string
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "收银(整单成功或整单失败)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseSellLines(lines)
			if err != nil {
				return err
			}
			resp, err := app().SellBooks.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringArrayVar(&lines, "line", nil, "明细isbn:数量(可重复)")
	return cmd
}

// parseSellLines 解析"isbn:数量",省略数量时为1
func parseSellLines(raw []string) (appsale.SellRequest, error) {
	req := appsale.SellRequest{Lines: make([]appsale.LineInput, 0, len(raw))}
	for i, s := range raw {
		isbn, qty, found := strings.Cut(s, ":")
		line := appsale.LineInput{ISBN: strings.TrimSpace(isbn), Quantity: 1}
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qty))
			if err != nil {
				return req, apperrors.Newf(apperrors.ErrCodeInvalidQuantity, "第%d行数量不是整数: %q", i+1, qty)
			}
			line.Quantity = n
		}
		req.Lines = append(req.Lines, line)
	}
	return req, nil
}

// watch-sales
func newWatchSalesCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch-sales",
		Short: "订阅销售完成事件,Ctrl+C退出",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if a.NewWatcher == nil {
				return fmt.Errorf("未配置消息队列,无法订阅销售事件")
			}
			watcher, err := a.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watcher.Consume(ctx, printSoldEvent(cmd.OutOrStdout()))
		},
	}
}

// printSoldEvent 每个事件输出一行摘要
// 无法解析的消息直接丢弃,避免反复重新入队
func printSoldEvent(w io.Writer) func(ctx context.Context, routingKey string, body []byte) error {
	return func(ctx context.Context, routingKey string, body []byte) error {
		var event sale.SoldEvent
		if err := json.Unmarshal(body, &event); err != nil {
			fmt.Fprintf(w, "%s | 无法解析: %v\n", routingKey, err)
			return nil
		}
		fmt.Fprintf(w, "%s | %s | %d本 | %s元 | %s\n",
			routingKey,
			event.ReceiptNo,
			event.Units,
			appbook.FormatYuan(event.Total),
			event.OccurredAt.Format("2006-01-02 15:04:05"),
		)
		return nil
	}
}

// printBooks 表格输出: isbn | 书名 | 作者 | 价格 | 库存 | 销量
func printBooks(w io.Writer, items []appbook.BookView) {
	for _, v := range items {
		cols := []string{v.ISBN, v.Title, v.Author, v.PriceYuan}
		if v.Stock != nil {
			cols = append(cols, strconv.Itoa(*v.Stock))
		}
		if v.Sell != nil {
			cols = append(cols, strconv.Itoa(*v.Sell))
		}
		fmt.Fprintln(w, strings.Join(cols, " | "))
	}
}

package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mesa-next/internal/i18n"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"

	"github.com/tealeg/xlsx"
)

var exportColumns = []string{
	"export.col_id",
	"export.col_created_at",
	"export.col_customer",
	"export.col_phone",
	"export.col_mode",
	"export.col_address",
	"export.col_items",
	"export.col_total",
	"export.col_status",
}

// ExportService 订单导出
type ExportService struct {
	orderRepo repository.OrderRepository
}

// NewExportService 创建导出服务
func NewExportService(orderRepo repository.OrderRepository) *ExportService {
	return &ExportService{orderRepo: orderRepo}
}

// ExportOrders 按过滤条件导出订单为 xlsx，表头按 locale 翻译
func (s *ExportService) ExportOrders(ctx context.Context, filter repository.OrderListFilter, locale string, w io.Writer) (int, error) {
	filter.Page = 0
	filter.PageSize = 0
	orders, _, err := s.orderRepo.ListByRestaurant(ctx, filter)
	if err != nil {
		return 0, err
	}
	file, err := BuildOrdersWorkbook(orders, locale)
	if err != nil {
		return 0, err
	}
	if err := file.Write(w); err != nil {
		return 0, err
	}
	return len(orders), nil
}

// BuildOrdersWorkbook 生成订单工作簿
func BuildOrdersWorkbook(orders []models.Order, locale string) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(i18n.T(locale, "export.sheet_orders"))
	if err != nil {
		return nil, err
	}
	header := sheet.AddRow()
	for _, key := range exportColumns {
		header.AddCell().SetString(i18n.T(locale, key))
	}
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(order.ID)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(order.CustomerName)
		row.AddCell().SetString(order.CustomerPhone)
		row.AddCell().SetString(i18n.T(locale, "label.delivery_mode."+order.DeliveryMode))
		address := ""
		if order.DeliveryAddress != nil {
			address = *order.DeliveryAddress
		} else if order.TableNumber != "" {
			address = "#" + order.TableNumber
		}
		row.AddCell().SetString(address)
		row.AddCell().SetString(summarizeItems(order.Items))
		total, _ := order.Total.Round(2).Float64()
		row.AddCell().SetFloatWithFormat(total, "0.00")
		row.AddCell().SetString(order.Status)
	}
	return file, nil
}

func summarizeItems(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s (%s)", item.Quantity, item.ProductName, item.VariationName))
	}
	return strings.Join(parts, "; ")
}

package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
)

var (
	// LeadExportHeaders 线索导出表头
	LeadExportHeaders = []string{"Title", "Customer", "Email", "Status", "Value", "Created"}
	// CustomerExportHeaders 客户导出表头
	CustomerExportHeaders = []string{"Name", "Email", "Phone", "Company", "Created"}
)

// BuildCSV 表头不加引号，数据单元格一律加引号，内部引号加倍，行之间用 \n 分隔
func BuildCSV(headers []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = QuoteCSV(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// QuoteCSV 单元格加引号
func QuoteCSV(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// LeadExportRows 线索导出数据，客户已删除时客户列为空
func LeadExportRows(leads []models.LeadView) [][]string {
	rows := make([][]string, 0, len(leads))
	for _, l := range leads {
		var name, email string
		if l.Customer != nil {
			name, email = l.Customer.Name, l.Customer.Email
		}
		rows = append(rows, []string{
			l.Title,
			name,
			email,
			string(l.Status),
			strconv.FormatFloat(l.Value, 'f', -1, 64),
			isoTime(l.CreatedAt),
		})
	}
	return rows
}

// CustomerExportRows 客户导出数据
func CustomerExportRows(customers []models.Customer) [][]string {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.Name, c.Email, c.Phone, c.Company, isoTime(c.CreatedAt)})
	}
	return rows
}

// isoTime UTC 毫秒精度 ISO 时间，零值为空串
func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"

	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	svc *service.ExpenseService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(svc *service.ExpenseService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出消费记录为 CSV
// @Description 根据时间范围导出消费记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Param start_time query string true "开始时间 (2025-01-01)"
// @Param end_time query string true "结束时间 (2025-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	startTime, endTime, ok := parseRange(c)
	if !ok {
		return
	}

	expenses, err := h.svc.ListInRange(startTime, endTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	// 生成 CSV
	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	// 写入表头
	headers := []string{"ID", "金额", "类别", "描述", "消费时间", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	// 写入数据
	for _, expense := range expenses {
		row := []string{
			fmt.Sprintf("%d", expense.ID),
			fmt.Sprintf("%.2f", expense.Amount),
			expense.Category.Name,
			expense.Description,
			expense.Date.Format("2006-01-02 15:04:05"),
			expense.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	// 设置响应头
	filename := fmt.Sprintf("expenses_%s_%s.csv", c.Query("start_time"), c.Query("end_time"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出消费记录为 JSON
// @Summary 导出消费记录为 JSON
// @Description 根据时间范围导出消费记录为 JSON 格式，附带汇总信息
// @Tags 导出
// @Produce json
// @Param start_time query string true "开始时间 (2025-01-01)"
// @Param end_time query string true "结束时间 (2025-12-31)"
// @Success 200 {object} Response "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	startTime, endTime, ok := parseRange(c)
	if !ok {
		return
	}

	expenses, err := h.svc.ListInRange(startTime, endTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	// 计算汇总信息
	var totalAmount float64
	for _, expense := range expenses {
		totalAmount += expense.Amount
	}

	Success(c, gin.H{
		"start_time":   c.Query("start_time"),
		"end_time":     c.Query("end_time"),
		"total_count":  len(expenses),
		"total_amount": totalAmount,
		"expenses":     toExpenseResponses(expenses),
	})
}

// ExportExcel 导出消费记录为 Excel
// @Summary 导出消费记录为 Excel
// @Description 根据时间范围导出消费记录为 Excel 文件，末行附合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_time query string true "开始时间 (2025-01-01)"
// @Param end_time query string true "结束时间 (2025-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	startTime, endTime, ok := parseRange(c)
	if !ok {
		return
	}

	expenses, err := h.svc.ListInRange(startTime, endTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	// 创建 Excel 文件
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "消费记录"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 20)

	// 写入表头
	headers := []string{"ID", "金额", "类别", "描述", "消费时间", "创建时间"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 写入数据
	var totalAmount float64
	for i, expense := range expenses {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), expense.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), expense.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), expense.Category.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), expense.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), expense.Date.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), expense.CreatedAt.Format("2006-01-02 15:04:05"))

		// 设置数据样式
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)
		totalAmount += expense.Amount
	}

	// 添加汇总行
	summaryRow := len(expenses) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), totalAmount)
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(expenses)))
	f.MergeCell(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("F%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	// 设置响应头
	filename := fmt.Sprintf("消费记录_%s_%s.xlsx", c.Query("start_time"), c.Query("end_time"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))

	// 写入响应
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}

package service

import (
	"bytes"
	"fmt"

	"budget/analytics"

	"github.com/xuri/excelize/v2"
)

const (
	overviewSheet  = "概览"
	breakdownSheet = "类别明细"
	trendSheet     = "每日趋势"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

type reportStyles struct {
	header  int
	data    int
	over    int
	summary int
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	var s reportStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	if s.data, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	if s.over, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "C00000"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	if s.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}
	return s, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// BuildInsightsWorkbook 生成预算分析 Excel：概览、类别明细、每日趋势三个工作表
func BuildInsightsWorkbook(insights *analytics.BudgetInsights) (*excelize.File, error) {
	f := excelize.NewFile()

	styles, err := newReportStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("创建样式失败: %w", err)
	}

	// 概览
	f.SetSheetName("Sheet1", overviewSheet)
	f.SetColWidth(overviewSheet, "A", "A", 16)
	f.SetColWidth(overviewSheet, "B", "B", 40)
	writeHeader(f, overviewSheet, []string{"指标", "数值"}, styles.header)
	overview := [][2]interface{}{
		{"统计区间", fmt.Sprintf("%s ~ %s", insights.StartDate, insights.EndDate)},
		{"月收入", insights.MonthlyIncome},
		{"总支出", insights.TotalExpenses},
		{"剩余预算", insights.RemainingBudget},
		{"建议储蓄", insights.SuggestedSavings},
		{"健康分", insights.HealthScore},
		{"健康评价", insights.HealthLabel},
	}
	for i, kv := range overview {
		row := i + 2
		f.SetCellValue(overviewSheet, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellValue(overviewSheet, fmt.Sprintf("B%d", row), kv[1])
		f.SetCellStyle(overviewSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), styles.data)
	}
	row := len(overview) + 3
	f.SetCellValue(overviewSheet, fmt.Sprintf("A%d", row), "建议")
	f.SetCellStyle(overviewSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), styles.summary)
	for _, sg := range insights.Suggestions {
		row++
		f.SetCellValue(overviewSheet, fmt.Sprintf("A%d", row), sg.Type)
		f.SetCellValue(overviewSheet, fmt.Sprintf("B%d", row), sg.Message)
	}

	// 类别明细
	if _, err := f.NewSheet(breakdownSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetColWidth(breakdownSheet, "A", "A", 20)
	f.SetColWidth(breakdownSheet, "B", "G", 12)
	writeHeader(f, breakdownSheet, []string{"类别", "支出", "笔数", "预算", "进度(%)", "超支金额", "状态"}, styles.header)
	for i, c := range insights.CategoryBreakdown {
		row := i + 2
		status, style := "正常", styles.data
		if c.OverBudget {
			status, style = "超支", styles.over
		}
		f.SetCellValue(breakdownSheet, fmt.Sprintf("A%d", row), c.Category)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("B%d", row), c.Amount)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("C%d", row), c.Count)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("D%d", row), c.Limit)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("E%d", row), c.Progress)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("F%d", row), c.OverageAmount)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("G%d", row), status)
		f.SetCellStyle(breakdownSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), style)
	}
	summaryRow := len(insights.CategoryBreakdown) + 2
	f.SetCellValue(breakdownSheet, fmt.Sprintf("A%d", summaryRow), "合计")
	f.SetCellValue(breakdownSheet, fmt.Sprintf("B%d", summaryRow), insights.TotalExpenses)
	f.SetCellValue(breakdownSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("共 %d 个类别", len(insights.CategoryBreakdown)))
	f.MergeCell(breakdownSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	f.SetCellStyle(breakdownSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("G%d", summaryRow), styles.summary)

	// 每日趋势
	if _, err := f.NewSheet(trendSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetColWidth(trendSheet, "A", "B", 15)
	writeHeader(f, trendSheet, []string{"日期", "支出"}, styles.header)
	for i, p := range insights.Trend {
		row := i + 2
		f.SetCellValue(trendSheet, fmt.Sprintf("A%d", row), p.Date)
		f.SetCellValue(trendSheet, fmt.Sprintf("B%d", row), p.Amount)
		f.SetCellStyle(trendSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), styles.data)
	}

	return f, nil
}

// RenderInsightsReport 生成 Excel 文件内容，用于下载或邮件附件
func RenderInsightsReport(insights *analytics.BudgetInsights) ([]byte, error) {
	f, err := BuildInsightsWorkbook(insights)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportFilename 报告文件名
func ReportFilename(insights *analytics.BudgetInsights) string {
	return fmt.Sprintf("预算分析_%s_%s.xlsx", insights.StartDate, insights.EndDate)
}

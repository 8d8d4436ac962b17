package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"coal-market-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// ErrNoExportData は出力対象が0件の場合のエラーです。
var ErrNoExportData = errors.New("所选时间段内无数据，无法导出。")

// ExportSheetName エクスポートのシート名
const ExportSheetName = "煤炭行情数据"

var exportHeaders = []interface{}{
	"ID", "时间", "地点", "煤种", "价格(元/吨)", "涨跌幅", "发热量(kcal/kg)", "硫分(%)", "来源",
}

// ExportService はレコードを xlsx ワークブックとして出力します。
type ExportService struct {
	engine  *MarketAnalyticsService
	metrics *MarketMetrics
}

// NewExportService 新しいエクスポートサービスを作成
func NewExportService(engine *MarketAnalyticsService, metrics *MarketMetrics) *ExportService {
	return &ExportService{engine: engine, metrics: metrics}
}

// ExportFileName returns the download name for a date range.
func ExportFileName(startLabel, endLabel string) string {
	return fmt.Sprintf("%s_%s_至_%s.xlsx", ExportSheetName, startLabel, endLabel)
}

// BuildWorkbook は期間内のレコードからワークブックを作成します。呼び出し側で Close すること。
func (e *ExportService) BuildWorkbook(dataset []models.PriceRecord, start, end time.Time) (*excelize.File, int, error) {
	rows := e.engine.FilterByDateRange(dataset, start, end)
	if len(rows) == 0 {
		return nil, 0, ErrNoExportData
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("シート名の設定に失敗: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}},
	})
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("スタイルの作成に失敗: %w", err)
	}
	riseStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "FF0000"}})
	fallStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "008000"}})

	if err := f.SetSheetRow(ExportSheetName, "A1", &exportHeaders); err != nil {
		f.Close()
		return nil, 0, err
	}
	if err := f.SetCellStyle(ExportSheetName, "A1", "I1", headerStyle); err != nil {
		f.Close()
		return nil, 0, err
	}

	for i, r := range rows {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			r.ID,
			r.TimeStr,
			r.Location,
			r.Type,
			r.Price,
			fmt.Sprintf("%.2f%%", r.ChangeRate),
			r.Calorific,
			r.Sulfur,
			r.Source,
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &values); err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("%d行目の書き込みに失敗: %w", row, err)
		}

		changeCell, _ := excelize.CoordinatesToCellName(6, row)
		style := fallStyle
		if r.ChangeRate > 0 {
			style = riseStyle
		}
		if err := f.SetCellStyle(ExportSheetName, changeCell, changeCell, style); err != nil {
			f.Close()
			return nil, 0, err
		}
	}

	return f, len(rows), nil
}

// WriteWorkbook はワークブックを w に書き出し、出力件数を返します。
func (e *ExportService) WriteWorkbook(w io.Writer, dataset []models.PriceRecord, start, end time.Time) (int, error) {
	f, count, err := e.BuildWorkbook(dataset, start, end)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("ワークブックのクローズに失敗: %v", err)
		}
	}()

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("ワークブックの出力に失敗: %w", err)
	}
	e.metrics.RecordExport()
	return count, nil
}

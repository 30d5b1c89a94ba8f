package journal

import (
	"fmt"
	"strings"

	"trademind/internal/domain"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Trades"

var exportHeaders = []string{
	"No", "Date", "Time", "Instrument", "Asset", "Side", "Market",
	"Qty", "Entry", "Exit", "Stop", "Target", "R:R", "P&L", "Mistakes", "Notes",
}

// BuildWorkbook renders trades into a single-sheet workbook. Side and P&L
// cells are coloured green for gains and red for losses.
func BuildWorkbook(trades []domain.Trade) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#0F172A"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)

	gain, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#10B981"}})
	loss, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#EF4444"}})

	for i, t := range trades {
		row := i + 2
		pnl := t.PnL()
		values := []interface{}{
			i + 1,
			t.Timestamp.Format("02-01-2006"),
			t.Timestamp.Format("15:04"),
			t.Instrument,
			string(t.AssetType),
			string(t.Side),
			string(t.MarketType),
			t.Qty,
			t.EntryPrice,
			t.ExitPrice,
			t.StopLoss,
			t.Target,
			t.RiskReward,
			pnl,
			strings.Join(t.Mistakes, ", "),
			t.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}

		style := gain
		if pnl < 0 {
			style = loss
		}
		_ = f.SetCellStyle(exportSheet, fmt.Sprintf("N%d", row), fmt.Sprintf("N%d", row), style)
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 5)
	_ = f.SetColWidth(exportSheet, "B", "C", 12)
	_ = f.SetColWidth(exportSheet, "D", "D", 18)
	_ = f.SetColWidth(exportSheet, "O", "P", 30)
	return f, nil
}

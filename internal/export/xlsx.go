package export

import (
	"fmt"
	"io"

	"salondesk/internal/config"
	"salondesk/internal/models"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Appointments"

var headers = []string{"Date", "Time", "Client", "Phone", "Service", "Stylist", "Status", "Duration (min)", "Price", "Notes"}

// currencyFormats are custom number formats keyed by ISO currency code.
var currencyFormats = map[string]string{
	"USD": `"$"#,##0.00`,
	"EUR": `#,##0.00\ "€"`,
}

// WriteAppointments renders the list view as an XLSX workbook. Rows keep the
// order of appts; a final row totals the price column. Prices are formatted
// in the display currency.
func WriteAppointments(w io.Writer, appts []models.Appointment, display config.DisplayConfig) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E9D8FD"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	format, ok := currencyFormats[display.Currency]
	if !ok {
		format = currencyFormats["USD"]
	}
	priceStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle)

	var total float64
	for i, a := range appts {
		row := i + 2
		values := []interface{}{
			a.Date,
			a.Time,
			a.Client.Name,
			a.Client.Phone,
			a.Service.Name,
			a.Stylist.Name,
			string(a.Status),
			a.Service.Duration,
			a.Service.Price,
			a.Notes,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		priceCell, _ := excelize.CoordinatesToCellName(9, row)
		_ = f.SetCellStyle(SheetName, priceCell, priceCell, priceStyle)
		total += a.Service.Price
	}

	totalRow := len(appts) + 2
	labelCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(9, totalRow)
	_ = f.SetCellValue(SheetName, labelCell, "Total")
	_ = f.SetCellValue(SheetName, totalCell, total)
	_ = f.SetCellStyle(SheetName, labelCell, totalCell, totalStyle)

	_ = f.SetColWidth(SheetName, "A", "B", 12)
	_ = f.SetColWidth(SheetName, "C", "F", 22)
	_ = f.SetColWidth(SheetName, "G", "I", 14)
	_ = f.SetColWidth(SheetName, "J", "J", 40)
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    "Appointments",
		Language: display.Locale,
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

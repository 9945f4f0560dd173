// README: Trip export as an .xlsx workbook, one row per activity.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"voyager/internal/maps"
	"voyager/internal/modules/itinerary"
)

const sheetName = "Itinerary"

var header = []interface{}{"Day", "Date", "Theme", "Time", "Title", "Type", "Location", "Cost", "Booking", "Route", "Description"}

// Spreadsheet renders t as an .xlsx workbook.
func Spreadsheet(t *itinerary.Trip) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return nil, err
	}

	row := 2
	for _, day := range t.Itinerary {
		for _, a := range day.Activities {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			values := []interface{}{
				day.Day, day.Date, day.Theme, a.Time, a.Title, string(a.Type), a.Location,
				a.CostEstimate, itinerary.BookingLink(t, day, a), maps.DirectionsURL(a.Location), a.Description,
			}
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			row++
		}
	}
	if err := f.SetColWidth(sheetName, "E", "E", 32); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package export writes listing reports as Excel workbooks for admins.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/format"
)

// SheetName is the worksheet holding the listing rows.
const SheetName = "Listings"

// Columns is the header row, in order.
var Columns = []string{
	"ID", "Title", "Type", "Property type", "Price", "Unit", "Price (display)",
	"Area (m²)", "District", "City", "Status", "Views", "Contact clicks", "Hidden", "Posted at",
}

// Listings writes one row per listing to w as an .xlsx workbook.
// Numbers are written as numbers so the sheet can be sorted and summed.
func Listings(w io.Writer, listings []domain.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, l := range listings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			l.ID,
			l.Title,
			string(l.Type),
			string(l.PropertyType),
			l.Price,
			l.PriceUnit,
			format.PriceLine(l),
			l.Area,
			l.District,
			l.City,
			string(l.Status),
			l.Views,
			l.ContactClicks,
			l.IsHidden,
			l.PostedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write listing %s: %w", l.ID, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/aita-go-api/internal/models"
)

const xlsxSheet = "Reports"

// WriteXLSX writes the tabular export as a single-sheet workbook.
func WriteXLSX(w io.Writer, reports []models.Report) (err error) {
	book := excelize.NewFile()
	defer func() {
		if cerr := book.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := book.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := book.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	for idx, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.StudentName, r.EssayTitle, r.Feedback, r.Score, isoDate(r.CreatedAt)}
		if err := book.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", idx+1, err)
		}
	}

	_, err = book.WriteTo(w)
	return err
}

package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leadharvest/pdfcontacts/internal/entity"
)

// WriteXLSX returns an XLSX workbook (as bytes) with one sheet per record
// type, mirroring the CSV columns.
func (s *Service) WriteXLSX(companies []entity.CompanyRecord, contacts []entity.ContactRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()

	if err := writeSheet(f, "Companies", companyHeaders, companyRows(companies)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Contacts", contactHeaders, contactRows(contacts)); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by ours.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if index, err := f.GetSheetIndex("Companies"); err == nil {
		f.SetActiveSheet(index)
	}

	// Widen the columns that hold free text and paths.
	_ = f.SetColWidth("Companies", "A", "B", 24)
	_ = f.SetColWidth("Companies", "H", "I", 40)
	_ = f.SetColWidth("Companies", "J", "J", 60)
	_ = f.SetColWidth("Contacts", "A", "A", 32)
	_ = f.SetColWidth("Contacts", "E", "E", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"companies", len(companies),
		"contacts", len(contacts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for cIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(cIdx+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

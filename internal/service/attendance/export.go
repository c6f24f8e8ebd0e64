package attendance

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

var exportHeaders = []string{"Date", "Name", "Username", "Department", "Status", "Check In", "Check Out", "Hours Worked"}

// writeWorkbook renders records as a single-sheet xlsx workbook.
func writeWorkbook(records []attendance.Attendance, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.Date.Format(attendance.DateLayout),
			"", "", "",
			string(rec.Status),
			clockOrEmpty(rec.CheckIn),
			clockOrEmpty(rec.CheckOut),
			"",
		}
		if rec.User != nil {
			values[1], values[2], values[3] = rec.User.Name, rec.User.Username, rec.User.Department
		}
		if rec.HoursWorked != nil {
			values[7] = *rec.HoursWorked
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return fmt.Errorf("error writing row %d: %w", row, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func clockOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}

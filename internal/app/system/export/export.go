// Package export writes the attendance table as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dalemusser/hygienedash/internal/app/system/classify"
	"github.com/dalemusser/hygienedash/internal/app/system/csvutil"
	"github.com/dalemusser/hygienedash/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/xuri/excelize/v2"
)

// Header is the column row shared by both formats.
var Header = []string{
	"ID", "Teacher", "Phone", "School", "District",
	"Topic Covered", "Present", "Absent", "Absence Reason", "Reason Category",
}

const sheetName = "Attendance"

// Row is one record as export cells. Free text is stripped of markup.
func Row(rec models.EnhancedAttendanceRecord) []string {
	return []string{
		strconv.Itoa(rec.ID),
		htmlsanitize.Plain(rec.TeacherName),
		rec.Phone,
		htmlsanitize.Plain(rec.School),
		htmlsanitize.Plain(rec.District),
		htmlsanitize.Plain(rec.TopicCovered),
		strconv.Itoa(rec.StudentsPresent),
		strconv.Itoa(rec.StudentsAbsent),
		htmlsanitize.Plain(rec.AbsenceReason),
		classify.Reason(rec.AbsenceReason).Label(),
	}
}

// WriteCSV writes records as a UTF-8 CSV with a BOM and CRLF line endings.
func WriteCSV(w io.Writer, records []models.EnhancedAttendanceRecord) error {
	cw, err := csvutil.NewWriter(w)
	if err != nil {
		return err
	}
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := Row(rec)
		for i := range row {
			row[i] = csvutil.SanitizeField(row[i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes records as a single-sheet workbook. Counts are numeric
// cells so totals can be computed in the spreadsheet.
func WriteXLSX(w io.Writer, records []models.EnhancedAttendanceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cells := Row(rec)
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		row[0] = rec.ID
		row[6] = rec.StudentsPresent
		row[7] = rec.StudentsAbsent

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", rec.ID, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

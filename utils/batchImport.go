package utils

import (
	"certgen/models"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyFile is returned when an import file contains no rows at all.
var ErrEmptyFile = errors.New("import file is empty")

// dateLayouts are tried in order when parsing completion dates.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"January 02, 2006",
}

// dateTimeLayouts are the same patterns with a time component, tried when the
// date-only pass fails. Only the date part of the result is kept.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	"02/01/2006 15:04:05",
	"January 02, 2006 15:04:05",
}

// ImportFromCSV parses a CSV file into certificate requests. The first row is
// treated as a header and matched against known column aliases; rows with a
// blank first column are skipped.
func ImportFromCSV(r io.Reader) ([]models.CertificateRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	// First row is header
	headers := rows[0]
	nameIndex := findColumnIndex(headers, "name", "recipient_name", "recipient")
	emailIndex := findColumnIndex(headers, "email", "recipient_email")
	courseIndex := findColumnIndex(headers, "course", "course_name")
	achievementIndex := findColumnIndex(headers, "achievement", "achievement_title", "title")
	dateIndex := findColumnIndex(headers, "date", "completion_date", "completed_on")
	issuerIndex := findColumnIndex(headers, "issuer", "issuer_name")
	instructorIndex := findColumnIndex(headers, "instructor", "instructor_name")

	var requests []models.CertificateRequest
	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue // Skip empty rows
		}

		completionDate := ParseDate(getValue(row, dateIndex))
		requests = append(requests, models.CertificateRequest{
			RecipientName:    getValue(row, nameIndex),
			RecipientEmail:   getValue(row, emailIndex),
			CourseName:       getValue(row, courseIndex),
			AchievementTitle: getValue(row, achievementIndex),
			CompletionDate:   &completionDate,
			IssuerName:       getValue(row, issuerIndex),
			InstructorName:   getValue(row, instructorIndex),
			SendEmail:        emailIndex >= 0 && len(row) > emailIndex && strings.TrimSpace(row[emailIndex]) != "",
		})
	}

	log.Printf("Imported %d certificate requests from CSV", len(requests))
	return requests, nil
}

// ImportFromExcel parses the first sheet of an xlsx workbook into certificate
// requests. Rows whose resolved name column is blank are skipped.
func ImportFromExcel(r io.Reader) ([]models.CertificateRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	// Get header row
	headers := rows[0]
	nameIndex := findColumnIndex(headers, "name", "recipient_name", "recipient")
	emailIndex := findColumnIndex(headers, "email", "recipient_email")
	courseIndex := findColumnIndex(headers, "course", "course_name")
	achievementIndex := findColumnIndex(headers, "achievement", "achievement_title", "title")
	dateIndex := findColumnIndex(headers, "date", "completion_date", "completed_on")
	issuerIndex := findColumnIndex(headers, "issuer", "issuer_name")
	instructorIndex := findColumnIndex(headers, "instructor", "instructor_name")

	var requests []models.CertificateRequest
	for i := 1; i < len(rows); i++ {
		name := getCellValueAsString(f, sheet, i, nameIndex)
		if strings.TrimSpace(name) == "" {
			continue // Skip rows without name
		}

		email := getCellValueAsString(f, sheet, i, emailIndex)
		completionDate := ParseDate(getCellValueAsString(f, sheet, i, dateIndex))
		requests = append(requests, models.CertificateRequest{
			RecipientName:    name,
			RecipientEmail:   email,
			CourseName:       getCellValueAsString(f, sheet, i, courseIndex),
			AchievementTitle: getCellValueAsString(f, sheet, i, achievementIndex),
			CompletionDate:   &completionDate,
			IssuerName:       getCellValueAsString(f, sheet, i, issuerIndex),
			InstructorName:   getCellValueAsString(f, sheet, i, instructorIndex),
			// Unlike the CSV path this does not trim: any extracted value counts.
			SendEmail: emailIndex >= 0 && email != "",
		})
	}

	log.Printf("Imported %d certificate requests from Excel", len(requests))
	return requests, nil
}

// findColumnIndex returns the index of the first header matching any of the
// given aliases, compared lowercased and trimmed, by equality or substring.
// Returns -1 when no header matches.
func findColumnIndex(headers []string, possibleNames ...string) int {
	for i, h := range headers {
		header := strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if header == name || strings.Contains(header, name) {
				return i
			}
		}
	}
	return -1
}

// getValue reads a CSV cell safely, trimming whitespace
func getValue(row []string, index int) string {
	if index >= 0 && index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// getCellValueAsString extracts a typed cell value. String cells yield their
// text, numeric cells an integer-truncated string (or an ISO date when the
// cell carries a date number format), boolean cells "true"/"false". Anything
// else yields an empty string.
func getCellValueAsString(f *excelize.File, sheet string, rowIdx, colIdx int) string {
	if colIdx < 0 {
		return ""
	}

	cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return ""
	}

	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return ""
	}

	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return ""
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw
	case excelize.CellTypeBool:
		if raw == "1" {
			return "true"
		}
		return "false"
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		value, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			// Cells without an explicit type attribute may still hold text.
			return raw
		}
		if isCellDateFormatted(f, sheet, cell) {
			t, convErr := excelize.ExcelDateToTime(value, false)
			if convErr != nil {
				return ""
			}
			return t.Format("2006-01-02")
		}
		return strconv.FormatInt(int64(value), 10)
	default:
		return ""
	}
}

// isCellDateFormatted reports whether a numeric cell carries a date number format.
func isCellDateFormatted(f *excelize.File, sheet, cell string) bool {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}

	// Built-in date/time number formats
	id := style.NumFmt
	if (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58) {
		return true
	}

	if style.CustomNumFmt != nil {
		fmtCode := strings.ToLower(*style.CustomNumFmt)
		return strings.Contains(fmtCode, "yy") || strings.Contains(fmtCode, "dd") ||
			strings.Contains(fmtCode, "mm")
	}
	return false
}

// ParseDate parses a completion date trying each recognized pattern in order,
// first as a date and then as a date-time. Blank or unrecognized input falls
// back to today's date and is never an error.
func ParseDate(dateStr string) time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return today()
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		}
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		}
	}

	log.Printf("Warning: could not parse date %q, using current date", dateStr)
	return today()
}

func today() time.Time {
	n := time.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.Local)
}

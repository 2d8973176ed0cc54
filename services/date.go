package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseDate parses a calendar date given as YYYY-MM-DD or as a spreadsheet date serial.
// Workbooks exported from the paper registry carry either form in the same column.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)

	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return parsedTime, nil
	}
	if serial, convErr := strconv.ParseFloat(dateStr, 64); convErr == nil && serial > 0 {
		if parsedTime, err = excelize.ExcelDateToTime(serial, false); err == nil {
			return parsedTime, nil
		}
	}
	return time.Time{}, invalidf("invalid date %q: expected YYYY-MM-DD", dateStr)
}

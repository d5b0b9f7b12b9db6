package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// Local is the business timezone used for "today" and AS OF dates (UTC+8)
var Local *time.Location

func init() {
	var err error
	Local, err = time.LoadLocation("Asia/Manila")
	if err != nil {
		Local = time.FixedZone("PHT", 8*60*60)
	}
}

// SetLocation switches the business timezone; call once at startup
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Local = loc
	return nil
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(Local)
}

// StartOfDay returns midnight of t's date in the business timezone
func StartOfDay(t time.Time) time.Time {
	l := t.In(Local)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Local)
}

// LastDayOfPreviousMonth is the statement cut-off for ledger statements
func LastDayOfPreviousMonth(t time.Time) time.Time {
	l := t.In(Local)
	return time.Date(l.Year(), l.Month(), 1, 0, 0, 0, 0, Local).AddDate(0, 0, -1)
}

// Layouts used in headers and file names
const (
	LongDate  = "January 02, 2006"
	ShortDate = "Jan 02, 2006"
	SlashDate = "01/02/2006"
)

var inputLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01-02-2006",
	"01-02-06",
	"1-2-06",
	"02-Jan-2006",
	"2-Jan-06",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
}

// excelEpoch is day zero of spreadsheet serial dates
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate accepts the date shapes found in ledger exports, including
// spreadsheet serial numbers. The zero value and false mean "no date".
func ParseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" || v == "-" || strings.EqualFold(v, "nan") || strings.EqualFold(v, "nat") {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, v, Local); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 && serial < 2958466 {
		d := excelEpoch.AddDate(0, 0, int(serial))
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, Local), true
	}
	return time.Time{}, false
}

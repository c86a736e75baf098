// ABOUTME: Cell value heuristics for spreadsheet imports
// ABOUTME: Budget and employee ranges, ARR rounding, dates, names and the multi-subsidiary flag

package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/harperreed/acctnotes/models"
)

var (
	budgetRange   = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)(K|M|B)?\s+TO\s+\$?(\d+(?:\.\d+)?)(K|M|B)?`)
	employeeRange = regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s+to\s+(\d+(?:,\d+)*)`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	idPrefix      = regexp.MustCompile(`^\d+\s+`)
	lastFirst     = regexp.MustCompile(`^([^,]+),\s*(.+)$`)
	isoDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseBudget keeps the top of a range like "$10M to $20M" as a whole number.
func parseBudget(value string) string {
	if value == "" {
		return ""
	}
	str := strings.ToUpper(value)

	if m := budgetRange.FindStringSubmatch(str); m != nil {
		top, err := strconv.ParseFloat(m[3], 64)
		if err == nil {
			switch m[4] {
			case "K":
				top *= 1e3
			case "M":
				top *= 1e6
			case "B":
				top *= 1e9
			}
			return strconv.FormatFloat(math.Round(top), 'f', 0, 64)
		}
	}
	return nonDigits.ReplaceAllString(str, "")
}

// parseEmployees keeps the top of a range like "100 to 249".
func parseEmployees(value string) string {
	if value == "" {
		return ""
	}
	if m := employeeRange.FindStringSubmatch(value); m != nil {
		return strings.ReplaceAll(m[2], ",", "")
	}
	return nonDigits.ReplaceAllString(value, "")
}

func roundARR(value string) string {
	if value == "" {
		return ""
	}
	n, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(value, ""), 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(math.Round(n), 'f', 0, 64)
}

// cleanCompanyName strips a leading "12345 " id prefix.
func cleanCompanyName(name string) string {
	if name == "" {
		return "New Customer"
	}
	return strings.TrimSpace(idPrefix.ReplaceAllString(name, ""))
}

// reverseName turns "Last, First" into "First Last".
func reverseName(name string) string {
	name = strings.TrimSpace(name)
	if m := lastFirst.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[2] + " " + m[1])
	}
	return name
}

// parseDate accepts ISO dates, Excel serial numbers and a few common layouts.
func parseDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if isoDate.MatchString(value) {
		return value
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return ""
		}
		return t.Format(models.DateLayout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return ""
}

// parseSubs marks single-subsidiary customers: "No" becomes "1", anything else "".
func parseSubs(value string) string {
	if strings.ToLower(strings.TrimSpace(value)) == "no" {
		return "1"
	}
	return ""
}

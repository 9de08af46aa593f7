package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ramsey-B/juniper/pkg/models"
)

// BirthDateCol returns the output column for date slot k (1..3).
func BirthDateCol(k int) string { return fmt.Sprintf("birth_date_%d", k) }

// noDateSentinel marks "date unknown" in the source sheet.
const noDateSentinel = "00/00/0000"

// Two-digit years above this cutoff are 19xx, the rest 20xx.
const yearCutoff = 22

// datePattern matches "day sep month sep year" where the month is numeric or
// a written name/abbreviation and the separator is a space, slash, or dash.
var datePattern = regexp.MustCompile(`(?i)\b(\d{1,2})[ /-]([a-z]+|\d{1,2})[ /-](\d{2,4})\b`)

// monthNames maps lowercase English and Indonesian month names and common
// abbreviations to month numbers. Spelling variants seen in published
// sheets (Pebruari, Nopember) are included.
var monthNames = map[string]int{
	"jan": 1, "january": 1, "januari": 1,
	"feb": 2, "february": 2, "februari": 2, "pebruari": 2, "peb": 2,
	"mar": 3, "march": 3, "maret": 3,
	"apr": 4, "april": 4,
	"may": 5, "mei": 5,
	"jun": 6, "june": 6, "juni": 6,
	"jul": 7, "july": 7, "juli": 7,
	"aug": 8, "august": 8, "agustus": 8, "agu": 8, "agt": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10, "oktober": 10, "okt": 10,
	"nov": 11, "november": 11, "nopember": 11, "nop": 11,
	"dec": 12, "december": 12, "desember": 12, "des": 12,
}

// NormalizeDates extracts up to MaxBirthDates calendar dates from free text
// in encounter order, rendered as YYYY/MM/DD. The 00/00/0000 sentinel means
// "no date" for the whole field. Slots never matched stay absent.
func NormalizeDates(text string) []string {
	if strings.Contains(text, noDateSentinel) {
		return nil
	}

	var dates []string
	for _, m := range datePattern.FindAllStringSubmatch(text, -1) {
		day, err := strconv.Atoi(m[1])
		if err != nil || day < 1 || day > 31 {
			continue
		}

		month := parseMonth(m[2])
		if month == 0 {
			continue
		}

		year := parseYear(m[3])
		if year == 0 {
			continue
		}

		dates = append(dates, fmt.Sprintf("%04d/%02d/%02d", year, month, day))
		if len(dates) == models.MaxBirthDates {
			break
		}
	}
	return dates
}

func parseMonth(token string) int {
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	return monthNames[strings.ToLower(token)]
}

func parseYear(token string) int {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	switch len(token) {
	case 4:
		return n
	case 2:
		if n > yearCutoff {
			return 1900 + n
		}
		return 2000 + n
	default:
		return 0
	}
}

// ApplyDates normalizes the birth-date column of every row into fixed
// birth_date_1..3 columns; unmatched slots are empty strings.
func ApplyDates(rows []*models.RowRecord, dateColumn string) {
	for _, row := range rows {
		dates := NormalizeDates(row.Get(dateColumn))
		for k := 1; k <= models.MaxBirthDates; k++ {
			value := ""
			if k <= len(dates) {
				value = dates[k-1]
			}
			row.Set(BirthDateCol(k), value)
		}
	}
}

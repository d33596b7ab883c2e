package metadata

import (
	"path/filepath"
	"regexp"
	"strconv"
)

var (
	filenameWeek = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])(?:KW|CW|week|wk|W)[\s_\-]*(\d{1,2})(?:\D|$)`)
	filenameYear = regexp.MustCompile(`(?:^|\D)(20\d{2})(?:\D|$)`)

	isoWeek  = regexp.MustCompile(`\b(20\d{2})[-\s]?W(\d{1,2})\b`)
	textWeek = regexp.MustCompile(`(?i)\b(?:week|KW|wk)\s*[:#]?\s*(\d{1,2})\b`)
	textYear = regexp.MustCompile(`\b(20\d{2})\b`)
)

// PeriodFromFilename reads week and year tokens such as KW23, KW_23,
// Week 23 or W23 and a four digit year. Missing parts are 0.
func PeriodFromFilename(name string) (week, year int) {
	base := filepath.Base(name)
	if m := filenameWeek.FindStringSubmatch(base); m != nil {
		week = validWeek(m[1])
	}
	if m := filenameYear.FindStringSubmatch(base); m != nil {
		year, _ = strconv.Atoi(m[1])
	}
	return week, year
}

// PeriodFromText reads the scorecard week and year from page text.
func PeriodFromText(text string) (week, year int) {
	if m := isoWeek.FindStringSubmatch(text); m != nil {
		year, _ = strconv.Atoi(m[1])
		if w := validWeek(m[2]); w > 0 {
			return w, year
		}
	}
	if m := textWeek.FindStringSubmatch(text); m != nil {
		week = validWeek(m[1])
	}
	if year == 0 {
		if m := textYear.FindStringSubmatch(text); m != nil {
			year, _ = strconv.Atoi(m[1])
		}
	}
	return week, year
}

// Period resolves week and year: the filename wins over the text.
func Period(text, filename string) (week, year int) {
	week, year = PeriodFromFilename(filename)
	tw, ty := PeriodFromText(text)
	if week == 0 {
		week = tw
	}
	if year == 0 {
		year = ty
	}
	return week, year
}

func validWeek(s string) int {
	w, err := strconv.Atoi(s)
	if err != nil || w < 1 || w > 53 {
		return 0
	}
	return w
}

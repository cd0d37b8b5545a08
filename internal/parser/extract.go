package parser

import (
	"regexp"
	"strings"
	"time"

	"finchat/internal/core"
)

// amountRe captures the first integer-or-decimal numeral, with an optional
// currency suffix. It deliberately binds to the FIRST number in the message;
// callers must not assume the last number wins.
var amountRe = regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*(?:pesos?|php|₱)?`)

// dateRe recognizes a month name (full or standard abbreviation), optionally
// preceded by "on", with an optional 1-2 digit day.
var dateRe = regexp.MustCompile(`(?i)(?:\bon\s+)?\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\b(?:\s+(\d{1,2}))?`)

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ExtractAmount returns the first monetary amount in the message.
func ExtractAmount(message string) (core.Money, bool) {
	m := amountRe.FindStringSubmatch(message)
	if m == nil {
		return core.Money{}, false
	}
	amount, err := core.ParseMoney(m[1])
	if err != nil {
		return core.Money{}, false
	}
	return amount, true
}

// ExtractDate returns the calendar date named in the message. The day
// defaults to 1 when absent and the year to now's year. A syntactically
// plausible but impossible date (February 30) is treated as not found.
func ExtractDate(message string, now time.Time) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(message)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := monthNames[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}

	day := 1
	if m[2] != "" {
		// 1-2 digits by construction, cannot fail
		day = int(m[2][0] - '0')
		if len(m[2]) == 2 {
			day = day*10 + int(m[2][1]-'0')
		}
	}

	year := now.Year()
	if !core.ValidDay(year, month, day) {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
}

package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	bloodPressureRe = regexp.MustCompile(`^(\d{2,3})/(\d{1,2})$`)
	numberRunRe     = regexp.MustCompile(`\d+`)
	longDateRe      = regexp.MustCompile(`(\w+)\s+(\d+),?\s+(\d{4})`)
	time12Re        = regexp.MustCompile(`^\d{1,2}:\d{2}\s?(?i:AM|PM)$`)
	time24Re        = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// NormalizeMobileNumber converts loosely formatted Philippine mobile numbers
// into the canonical "+63" plus ten digits form. Input with no digits at all
// is returned unchanged; the backend is the final arbiter for such values.
func NormalizeMobileNumber(raw string) string {
	digits := keepDigits(raw)
	if digits == "" {
		return raw
	}
	digits = strings.TrimLeft(digits, "0")

	switch {
	case strings.HasPrefix(digits, "63"):
		rest := digits[2:]
		if len(rest) >= 10 {
			return "+63" + rest[:10]
		}
		// Too short after the country code; keep what we have.
		return "+" + digits
	case len(digits) == 10:
		return "+63" + digits
	case len(digits) == 9:
		// Assume a dropped leading digit.
		return "+63" + digits
	case len(digits) >= 11 && len(digits) <= 13:
		if idx := strings.Index(digits, "63"); idx >= 0 && len(digits)-(idx+2) >= 10 {
			return "+63" + digits[idx+2:idx+12]
		}
		return "+63" + digits[len(digits)-10:]
	case len(digits) > 10:
		return "+63" + digits[len(digits)-10:]
	default:
		return "+63" + digits
	}
}

// NormalizeBloodPressure parses free-text blood pressure into a
// "systolic/diastolic" pair with a two-digit diastolic part. It returns
// ok=false when the input contains something but no readable pair; an empty
// or whitespace-only input is simply absent and returns ("", true).
func NormalizeBloodPressure(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", true
	}
	if m := bloodPressureRe.FindStringSubmatch(trimmed); m != nil {
		return m[1] + "/" + padDiastolic(m[2]), true
	}
	runs := numberRunRe.FindAllString(trimmed, -1)
	if len(runs) >= 2 {
		return runs[0] + "/" + padDiastolic(runs[1]), true
	}
	return "", false
}

func padDiastolic(d string) string {
	if len(d) == 1 {
		return "0" + d
	}
	return d
}

// NormalizeDate converts schedule strings as entered in the wizard into
// canonical YYYY-MM-DD. It understands the literal "today", strict
// YYYY-MM-DD, and "<Month> <day>, <year>" forms; anything else falls
// through to a small set of generic layouts. Local calendar components are
// used throughout so a date never shifts across a timezone boundary.
func NormalizeDate(raw string, now time.Time) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.Contains(strings.ToLower(trimmed), "today") {
		return formatLocalDate(now), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", trimmed, now.Location()); err == nil {
		return formatLocalDate(t), nil
	}
	if m := longDateRe.FindStringSubmatch(trimmed); m != nil {
		month := monthIndex(m[1])
		if month > 0 {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
			return formatLocalDate(t), nil
		}
	}
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006", "01/02/2006", "2 January 2006"} {
		if t, err := time.ParseInLocation(layout, trimmed, now.Location()); err == nil {
			return formatLocalDate(t), nil
		}
	}
	return "", fmt.Errorf("invalid date format: %s", raw)
}

func monthIndex(name string) int {
	lower := strings.ToLower(name)
	for i, m := range monthNames {
		if strings.HasPrefix(m, lower) {
			return i + 1
		}
	}
	return 0
}

func formatLocalDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// NormalizeTime converts 24-hour "HH:MM" times into "H:MM AM/PM". Times
// already in 12-hour form pass through unchanged, as does anything
// unrecognized.
func NormalizeTime(raw string) string {
	if time12Re.MatchString(raw) {
		return raw
	}
	if m := time24Re.FindStringSubmatch(raw); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 23 {
			return raw
		}
		meridiem := "AM"
		if hour >= 12 {
			meridiem = "PM"
		}
		hour12 := hour % 12
		if hour12 == 0 {
			hour12 = 12
		}
		return fmt.Sprintf("%d:%s %s", hour12, m[2], meridiem)
	}
	return raw
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

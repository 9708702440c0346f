package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	timeMeridiemRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*:\s*(\d{2})\s*(am|pm)\b`)
	time24Re       = regexp.MustCompile(`\b(\d{1,2})\s*:\s*(\d{2})\b`)
)

// extractTime finds an explicit H:MM token on the line and returns it in
// 12-hour display form. When no am/pm suffix is present, the meridiem is
// inferred from the 24-hour value: hour 0 becomes 12 AM, hour 12 stays 12 PM.
func extractTime(line string) string {
	if m := timeMeridiemRe.FindStringSubmatch(line); m != nil {
		if !validMinutes(m[2]) {
			return ""
		}
		hr, _ := strconv.Atoi(m[1])
		if hr < 1 || hr > 12 {
			return ""
		}
		return strconv.Itoa(hr) + ":" + m[2] + " " + strings.ToUpper(m[3])
	}

	m := time24Re.FindStringSubmatch(line)
	if m == nil || !validMinutes(m[2]) {
		return ""
	}
	hr, _ := strconv.Atoi(m[1])
	if hr < 0 || hr > 23 {
		return ""
	}
	period := "AM"
	if hr >= 12 {
		period = "PM"
	}
	display := hr
	if display > 12 {
		display -= 12
	}
	if display == 0 {
		display = 12
	}
	return strconv.Itoa(display) + ":" + m[2] + " " + period
}

func validMinutes(s string) bool {
	mn, err := strconv.Atoi(s)
	return err == nil && mn >= 0 && mn <= 59
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/danielhkuo/party-registry/models"
)

var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order. Layouts with an offset keep it, so the
// day read back is the day that was written.
var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	// Slash dates are day first (es-PE); month-first en-US input is not
	// recognised and reads as a different day.
	"02/01/2006",
	"2/1/2006",
}

// jsDateLayout matches the leading part of JavaScript's Date.toString(),
// e.g. "Tue Mar 05 2024 00:00:00 GMT-0500 (Peru Standard Time)".
const jsDateLayout = "Mon Jan 02 2006"

// NormalizeDate converts a date or datetime string to YYYY-MM-DD. The
// calendar day is built from the parsed year, month and day as written;
// the value is never shifted into UTC or the server's zone.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidDate
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDay(t), nil
		}
	}

	if len(s) >= len(jsDateLayout) {
		if t, err := time.Parse(jsDateLayout, s[:len(jsDateLayout)]); err == nil {
			return calendarDay(t), nil
		}
	}

	return "", ErrInvalidDate
}

func calendarDay(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
}

package freecodecamp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/travigo/relay/pkg/util"
)

var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	"Mon Jan 02 2006",
	"Mon Jan 2 2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
}

type Timestamp struct {
	Unix int64  `json:"unix"`
	UTC  string `json:"utc"`
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Unix: t.UnixMilli(),
		UTC:  t.UTC().Format(http.TimeFormat),
	}
}

// ParseDate accepts the date formats browsers commonly understand. Values without a zone are UTC
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

// ParseTimestamp reads an empty value as now, a run of digits as unix milliseconds and anything else as a date
func ParseTimestamp(value string, now time.Time) (Timestamp, error) {
	if value == "" {
		return NewTimestamp(now), nil
	}

	if util.IsDigits(value) {
		milliseconds, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Timestamp{}, ErrInvalidDate
		}
		return NewTimestamp(time.UnixMilli(milliseconds)), nil
	}

	parsed, err := ParseDate(value)
	if err != nil {
		return Timestamp{}, err
	}

	return NewTimestamp(parsed), nil
}

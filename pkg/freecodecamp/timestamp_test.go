package freecodecamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2023, time.March, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		input string
		unix  int64
		utc   string
	}{
		{"", 1677906367000, "Sat, 04 Mar 2023 05:06:07 GMT"},
		{"1451001600000", 1451001600000, "Fri, 25 Dec 2015 00:00:00 GMT"},
		{"2015-12-25", 1451001600000, "Fri, 25 Dec 2015 00:00:00 GMT"},
		{"2015-12-25T12:30:00Z", 1451046600000, "Fri, 25 Dec 2015 12:30:00 GMT"},
		{"2015-12-25T14:30:00+02:00", 1451046600000, "Fri, 25 Dec 2015 12:30:00 GMT"},
		{"Fri, 25 Dec 2015 00:00:00 GMT", 1451001600000, "Fri, 25 Dec 2015 00:00:00 GMT"},
		{"December 25, 2015", 1451001600000, "Fri, 25 Dec 2015 00:00:00 GMT"},
		{"0", 0, "Thu, 01 Jan 1970 00:00:00 GMT"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			timestamp, err := ParseTimestamp(test.input, now)
			require.NoError(t, err)
			assert.Equal(t, test.unix, timestamp.Unix)
			assert.Equal(t, test.utc, timestamp.UTC)
		})
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, input := range []string{"not a date", "2015-13-45", "-5"} {
		_, err := ParseTimestamp(input, time.Now())
		assert.ErrorIs(t, err, ErrInvalidDate, input)
	}
}

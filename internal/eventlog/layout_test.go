package eventlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"%d-%m-%Y:%H.%M", "02-01-2006:15.04"},
		{"%Y-%m-%d %H:%M:%S", "2006-01-02 15:04:05"},
		{"%Y-%m-%dT%H:%M:%S.%f%z", "2006-01-02T15:04:05.000000-0700"},
		{"%d %b %y %I:%M %p", "02 Jan 06 03:04 PM"},
		{"100%%", "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := ParseLayout(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLayout_Unsupported(t *testing.T) {
	for _, format := range []string{"%j", "%Y-%"} {
		_, err := ParseLayout(format)
		assert.ErrorIs(t, err, ErrUnsupportedDirective, format)
	}
}

func TestTimeParser_CourseworkFormat(t *testing.T) {
	p, err := newTimeParser("%d-%m-%Y:%H.%M")
	require.NoError(t, err)

	got, err := p.parse("30-12-2010:11.02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 12, 30, 11, 2, 0, 0, time.UTC), got)
}

func TestTimeParser_Fallbacks(t *testing.T) {
	p, err := newTimeParser("")
	require.NoError(t, err)

	for _, value := range []string{
		"2010-12-30T11:02:00+01:00",
		"2010-12-30T11:02:00",
		"2010-12-30 11:02:00",
		"2010-12-30 11:02",
		"2010-12-30",
	} {
		_, err := p.parse(value)
		assert.NoError(t, err, value)
	}

	_, err = p.parse("yesterday")
	assert.Error(t, err)
}

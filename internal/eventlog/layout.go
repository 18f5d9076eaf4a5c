package eventlog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedDirective is returned by ParseLayout for strftime
// directives that have no Go layout equivalent.
var ErrUnsupportedDirective = errors.New("unsupported strftime directive")

// strftimeDirectives maps strftime directives to Go reference-time layouts.
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'f': "000000",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'z': "-0700",
	'Z': "MST",
	'%': "%",
}

// fallbackLayouts are tried in order when no timestamp format is configured.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLayout translates a strftime format (e.g. "%d-%m-%Y:%H.%M") into a
// Go time layout ("02-01-2006:15.04").
func ParseLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", fmt.Errorf("%w: trailing %%", ErrUnsupportedDirective)
		}
		i++
		layout, ok := strftimeDirectives[format[i]]
		if !ok {
			return "", fmt.Errorf("%w: %%%c", ErrUnsupportedDirective, format[i])
		}
		b.WriteString(layout)
	}
	return b.String(), nil
}

// timeParser parses timestamps with either a fixed layout or the fallbacks.
type timeParser struct {
	layout string
}

func newTimeParser(format string) (*timeParser, error) {
	if format == "" {
		return &timeParser{}, nil
	}
	layout, err := ParseLayout(format)
	if err != nil {
		return nil, err
	}
	return &timeParser{layout: layout}, nil
}

func (p *timeParser) parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if p.layout != "" {
		return time.Parse(p.layout, value)
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known layout matches %q", value)
}

// Package exchangetime parses the instants operators type when asking for an
// exchange verdict, such as "tomorrow at 9am" or an RFC 3339 timestamp.
package exchangetime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognized is returned when no layout or rule matches the input.
var ErrUnrecognized = errors.New("unrecognized time")

var compactClock = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)

// Parser resolves user input against a wall clock location.
type Parser struct {
	location *time.Location
	when     *when.Parser
}

// NewParser creates a Parser. nil loc means UTC.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{location: loc, when: w}
}

// Parse returns the instant described by input relative to now. An empty input
// means now.
func (p *Parser) Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, p.location); err == nil {
		return t, nil
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = strings.ReplaceAll(normalized, "tomorrow ", "tomorrow at ")
	// "932am" -> "9:32 am"
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.when.Parse(normalized, now.In(p.location))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", input, ErrUnrecognized)
	}
	return r.Time.In(p.location).Truncate(time.Minute), nil
}

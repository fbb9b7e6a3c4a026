package recurrence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// wireRule is the JSON shape of a rule. Keys are camelCase so the stored text
// stays readable by any client that already speaks this format.
type wireRule struct {
	Type       RuleType `json:"type"`
	Interval   int      `json:"interval"`
	DaysOfWeek []int    `json:"daysOfWeek,omitzero"`
	DayOfMonth *int     `json:"dayOfMonth,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
}

// Encode renders rule as JSON text. Absent optional fields are omitted; an
// explicitly empty DaysOfWeek is kept as [].
func Encode(rule Rule) (string, error) {
	b, err := json.Marshal(rule)
	if err != nil {
		return "", fmt.Errorf("encode recurrence rule: %w", err)
	}
	return string(b), nil
}

// Decode parses the JSON text produced by Encode. Decode does not validate;
// call Validate on the result before evaluating it.
func Decode(text string) (Rule, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "null" {
		return Rule{}, fmt.Errorf("%w: empty input", ErrMalformedRule)
	}

	var rule Rule
	if err := json.Unmarshal([]byte(trimmed), &rule); err != nil {
		if errors.Is(err, ErrMalformedRule) {
			return Rule{}, err
		}
		return Rule{}, fmt.Errorf("%w: %v", ErrMalformedRule, err)
	}
	return rule, nil
}

// MarshalJSON implements json.Marshaler. EndDate is written as its calendar
// date in its own location and decodes as midnight UTC of that date.
func (r Rule) MarshalJSON() ([]byte, error) {
	w := wireRule{
		Type:       r.Type,
		Interval:   r.Interval,
		DaysOfWeek: r.DaysOfWeek,
		DayOfMonth: r.DayOfMonth,
	}
	if r.EndDate != nil {
		w.EndDate = FormatDate(*r.EndDate)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. Errors wrap ErrMalformedRule.
func (r *Rule) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var w wireRule
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRule, err)
	}

	rule := Rule{
		Type:       w.Type,
		Interval:   w.Interval,
		DaysOfWeek: w.DaysOfWeek,
		DayOfMonth: w.DayOfMonth,
	}
	if w.EndDate != "" {
		end, err := ParseDate(w.EndDate)
		if err != nil {
			return fmt.Errorf("%w: endDate: %v", ErrMalformedRule, err)
		}
		rule.EndDate = &end
	}

	*r = rule
	return nil
}

// EndsBefore reports whether t falls on a calendar day after the rule's end date.
// Rules without an end date never end.
func (r Rule) EndsBefore(t time.Time) bool {
	return r.EndDate != nil && AfterDate(t, *r.EndDate)
}

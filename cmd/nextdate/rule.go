package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rezkam/cadence/internal/recurrence"
)

var weekdayNames = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// ruleDocument is a rule file. JSON files parse too, JSON being valid YAML.
type ruleDocument struct {
	Type       recurrence.RuleType `yaml:"type"`
	Interval   int                 `yaml:"interval"`
	DaysOfWeek []int               `yaml:"daysOfWeek"`
	DayOfMonth *int                `yaml:"dayOfMonth"`
	EndDate    string              `yaml:"endDate"`
}

// ruleFlags builds a rule from --rule JSON, a --file document or the individual flags.
type ruleFlags struct {
	ruleJSON   string
	file       string
	ruleType   string
	interval   int
	days       string
	dayOfMonth int
	until      string

	cmd *cobra.Command
}

func (f *ruleFlags) register(cmd *cobra.Command) {
	f.cmd = cmd
	fs := cmd.Flags()
	fs.StringVar(&f.ruleJSON, "rule", "", `rule as JSON, e.g. '{"type":"daily","interval":2}'`)
	fs.StringVarP(&f.file, "file", "f", "", "read the rule from a YAML or JSON file")
	fs.StringVarP(&f.ruleType, "type", "t", "", "daily, weekly, monthly or custom")
	fs.IntVarP(&f.interval, "interval", "i", 1, "number of units between occurrences")
	fs.StringVar(&f.days, "days", "", "weekly days, names or numbers 0-6 (sun,wed or 0,3)")
	fs.IntVar(&f.dayOfMonth, "day-of-month", 0, "monthly day 1-31, clamped in short months")
	fs.StringVar(&f.until, "until", "", "last date an occurrence may fall on (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("rule", "file", "type")
	cmd.MarkFlagsOneRequired("rule", "file", "type")
}

func (f *ruleFlags) rule() (recurrence.Rule, error) {
	if f.ruleJSON != "" {
		return recurrence.Decode(f.ruleJSON)
	}
	if f.file != "" {
		return readRuleFile(f.file)
	}

	rule := recurrence.Rule{
		Type:     recurrence.RuleType(strings.ToLower(f.ruleType)),
		Interval: f.interval,
	}

	if f.cmd.Flags().Changed("days") {
		days, err := parseWeekdays(f.days)
		if err != nil {
			return recurrence.Rule{}, err
		}
		rule.DaysOfWeek = days
	}
	if f.cmd.Flags().Changed("day-of-month") {
		dom := f.dayOfMonth
		rule.DayOfMonth = &dom
	}
	if f.until != "" {
		end, err := recurrence.ParseDate(f.until)
		if err != nil {
			return recurrence.Rule{}, fmt.Errorf("--until: %w", err)
		}
		rule.EndDate = &end
	}
	return rule, nil
}

func (f *ruleFlags) validRule() (recurrence.Rule, error) {
	rule, err := f.rule()
	if err != nil {
		return recurrence.Rule{}, err
	}
	if err := recurrence.Validate(rule); err != nil {
		return recurrence.Rule{}, err
	}
	return rule, nil
}

// parseWeekdays accepts a comma separated list. An empty list yields a
// non-nil empty slice so validation can reject it.
func parseWeekdays(s string) ([]int, error) {
	days := []int{}
	for part := range strings.SplitSeq(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if d, ok := weekdayNames[part[:min(3, len(part))]]; ok {
			days = append(days, d)
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.New("--days: unknown weekday " + strconv.Quote(part))
		}
		days = append(days, d)
	}
	return days, nil
}

func readRuleFile(path string) (recurrence.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recurrence.Rule{}, err
	}

	var doc ruleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return recurrence.Rule{}, fmt.Errorf("%w: %s: %v", recurrence.ErrMalformedRule, path, err)
	}

	rule := recurrence.Rule{
		Type:       doc.Type,
		Interval:   doc.Interval,
		DaysOfWeek: doc.DaysOfWeek,
		DayOfMonth: doc.DayOfMonth,
	}
	if doc.EndDate != "" {
		end, err := recurrence.ParseDate(doc.EndDate)
		if err != nil {
			return recurrence.Rule{}, fmt.Errorf("%w: %s: endDate: %v", recurrence.ErrMalformedRule, path, err)
		}
		rule.EndDate = &end
	}
	return rule, nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/recurrence"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 1, 22, 30, 0, 0, time.UTC)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(fixedNow)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "monthly clamps to short month",
			args: []string{"next", "2025-01-31", "--type", "monthly", "--day-of-month", "31"},
			want: "2025-02-28\n",
		},
		{
			name: "defaults to today",
			args: []string{"next", "--type", "daily", "--interval", "7"},
			want: "2025-03-08\n",
		},
		{
			name: "weekly snaps to next listed day",
			args: []string{"next", "2025-03-03", "--type", "weekly", "--days", "mon,wed"},
			want: "2025-03-05\n",
		},
		{
			name: "rule as json",
			args: []string{"next", "2024-01-15", "--rule", `{"type":"monthly","interval":1}`},
			want: "2024-02-15\n",
		},
		{
			name: "end date reached",
			args: []string{"next", "2025-03-01", "--type", "daily", "--until", "2025-03-01"},
			want: "none\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestUpcoming(t *testing.T) {
	out, err := execute(t, "upcoming", "2025-03-01", "-t", "daily", "-i", "7", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-08\n2025-03-15\n", out)

	out, err = execute(t, "upcoming", "2025-03-01", "-t", "daily", "--until", "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02\n2025-03-03\n", out)

	_, err = execute(t, "upcoming", "-t", "daily", "-n", "0")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "--rule", ` {"type":"monthly","interval":1,"dayOfMonth":31} `)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"monthly","interval":1,"dayOfMonth":31}`+"\n", out)

	_, err = execute(t, "validate", "--type", "weekly", "--days", "")
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)

	_, err = execute(t, "validate", "--type", "daily", "--interval", "0")
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)

	_, err = execute(t, "validate", "--type", "monthly", "--day-of-month", "32")
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)

	_, err = execute(t, "validate", "--rule", "not json")
	assert.ErrorIs(t, err, recurrence.ErrMalformedRule)
}

func TestRuleFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no rule", args: []string{"next"}},
		{name: "rule and type together", args: []string{"next", "--rule", `{"type":"daily","interval":1}`, "--type", "daily"}},
		{name: "bad date argument", args: []string{"next", "31/01/2025", "--type", "daily"}},
		{name: "bad until", args: []string{"next", "--type", "daily", "--until", "soon"}},
		{name: "unknown weekday", args: []string{"next", "--type", "weekly", "--days", "funday"}},
		{name: "too many args", args: []string{"next", "2025-01-01", "2025-01-02", "--type", "daily"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{in: "sun,wed", want: []int{0, 3}},
		{in: "Monday, Friday", want: []int{1, 5}},
		{in: "0,6", want: []int{0, 6}},
		{in: "", want: []int{}},
		{in: " , ", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWeekdays(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseWeekdays("mo")
	assert.Error(t, err)
}

func TestRuleFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	rent := write("rent.yaml", `
type: monthly
interval: 1
dayOfMonth: 31
endDate: 2025-03-31
`)
	out, err := execute(t, "upcoming", "2025-01-31", "--file", rent)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28\n2025-03-31\n", out)

	gym := write("gym.json", `{"type":"weekly","interval":1,"daysOfWeek":[1,3]}`)
	out, err = execute(t, "next", "2025-03-03", "-f", gym)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05\n", out)

	empty := write("empty-days.yaml", "type: weekly\ninterval: 1\ndaysOfWeek: []\n")
	_, err = execute(t, "validate", "--file", empty)
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)

	broken := write("broken.yaml", "type: [daily\n")
	_, err = execute(t, "validate", "--file", broken)
	assert.ErrorIs(t, err, recurrence.ErrMalformedRule)

	badDate := write("bad-date.yaml", "type: daily\ninterval: 1\nendDate: someday\n")
	_, err = execute(t, "validate", "--file", badDate)
	assert.ErrorIs(t, err, recurrence.ErrMalformedRule)

	_, err = execute(t, "validate", "--file", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package a

import (
	"time"
	clock "time"
)

func completedAt() time.Time {
	return time.Now() // want `time.Now\(\) should be followed by .UTC\(\) for timezone consistency`
}

func completedAtUTC() time.Time {
	return time.Now().UTC()
}

func renamedImport() time.Time {
	return clock.Now() // want `time.Now\(\) should be followed by .UTC\(\) for timezone consistency`
}

func parenthesized() time.Time {
	return (time.Now()).UTC()
}

func chained() string {
	return time.Now().UTC().Format(time.DateOnly)
}

func dueDate(t time.Time) time.Time {
	return t.Local() // want `Time.Local\(\) converts to the process time zone; keep times in UTC`
}

func anchor(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local) // want `time.Local depends on the process time zone; use time.UTC`
}

func anchorUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type clockFunc func() time.Time

func injected() clockFunc {
	return time.Now
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() {
	_ = time.Now() //nolint:timeutc
}

func nolintList() {
	_ = time.Now().Local() //nolint:errcheck,timeutc
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:otherlinter // want `time.Now\(\) should be followed by .UTC\(\) for timezone consistency`
}

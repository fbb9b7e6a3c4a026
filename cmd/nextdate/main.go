// Command nextdate evaluates a recurrence rule from the shell.
//
//	nextdate next 2025-01-31 --type monthly --day-of-month 31
//	nextdate upcoming --rule '{"type":"weekly","interval":1,"daysOfWeek":[1,3]}' --count 4
//	nextdate upcoming 2025-03-01 --file rent.yaml
//	nextdate validate --type weekly --days ""
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/cadence/internal/recurrence"
)

var Version = "dev"

const defaultUpcomingCount = 5

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(now func() time.Time) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nextdate",
		Short:         "Evaluate cadence recurrence rules",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(nextCmd(now))
	rootCmd.AddCommand(upcomingCmd(now))
	rootCmd.AddCommand(validateCmd())

	return rootCmd
}

func nextCmd(now func() time.Time) *cobra.Command {
	var flags ruleFlags

	cmd := &cobra.Command{
		Use:   "next [date]",
		Short: "Print the occurrence after date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := flags.validRule()
			if err != nil {
				return err
			}
			from, err := anchorDate(args, now)
			if err != nil {
				return err
			}

			next, ok := recurrence.Successor(rule, from).Get()
			if !ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "none")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), recurrence.FormatDate(next))
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

func upcomingCmd(now func() time.Time) *cobra.Command {
	var flags ruleFlags
	var count int

	cmd := &cobra.Command{
		Use:   "upcoming [date]",
		Short: "Print the next occurrences after date (default today), one per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New("--count must be at least 1")
			}
			rule, err := flags.validRule()
			if err != nil {
				return err
			}
			from, err := anchorDate(args, now)
			if err != nil {
				return err
			}

			for _, d := range recurrence.Upcoming(rule, from, count) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), recurrence.FormatDate(d)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", defaultUpcomingCount, "number of occurrences to print")
	return cmd
}

func validateCmd() *cobra.Command {
	var flags ruleFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a rule and print its canonical JSON form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := flags.validRule()
			if err != nil {
				return err
			}
			text, err := recurrence.Encode(rule)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// anchorDate reads the optional date argument. Without one it uses the
// calendar date of now in the caller's zone.
func anchorDate(args []string, now func() time.Time) (time.Time, error) {
	if len(args) == 0 {
		return recurrence.DateOf(now()), nil
	}
	return recurrence.ParseDate(args[0])
}

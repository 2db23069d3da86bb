package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tabsye/waitlist/tracker"
)

// countCmd prints the remote subscriber count
var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the waitlist subscriber count",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.client.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

// recordsCmd lists the locally tracked submissions
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List locally remembered submissions (expired ones are purged)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tRECORDED\tEXPIRES")
		for _, r := range a.tracker.Records(cmd.Context()) {
			at := time.UnixMilli(r.Timestamp)
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key, at.Format(time.RFC3339), at.Add(tracker.RetentionWindow).Format(time.RFC3339))
		}
		return w.Flush()
	},
}

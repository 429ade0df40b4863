package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"logtriage/internal/incident"
	"logtriage/internal/output"
	"logtriage/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Follow a log file and flag lines matching known failure signatures",
	Long: `Watch a growing log file and classify each appended line with the
deterministic rule engine, printing lines that match a known failure
signature.

This is live triage: only the cheap rule classifier runs, never the AI
pipeline.

Examples:
  logtriage watch /var/log/app.log
  logtriage watch --min-severity high --follow-rotate /var/log/app.log`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("follow-rotate", false, "keep following through log rotations")
	watchCmd.Flags().String("min-severity", "low", "minimum severity to report (low, medium, high, critical)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	followRotate, _ := cmd.Flags().GetBool("follow-rotate")
	minSeverityStr, _ := cmd.Flags().GetString("min-severity")
	minSeverity := incident.ParseSeverity(minSeverityStr)

	colorize := output.ShouldColorize(output.ColorAuto, cmd.OutOrStdout())

	watcher := watch.New(watch.Options{
		FilePath:     args[0],
		FollowRotate: followRotate,
		MinSeverity:  minSeverity,
		OnMatch: func(m watch.Match) error {
			line := output.ColorizeLine(m.Record.Severity, m.Line, colorize)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n  -> %s [%s/%s]\n",
				line, m.Record.IssueType, m.Record.Severity, m.Record.Category)
			return err
		},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (min severity: %s). Ctrl-C to stop.\n", args[0], minSeverity)
	return watcher.Run(ctx)
}

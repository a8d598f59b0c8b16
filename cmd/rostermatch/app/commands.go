package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostermatch/internal/cmd/output"
	"github.com/agentstation/rostermatch/internal/report"
)

// NewReportCommand creates the report command.
func (a *App) NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Write the Steam ID matching report",
		Long: `Report fetches both rating exports, scans the players directory and
writes the matching report. An export that cannot be fetched is reported
and treated as empty; a missing players directory is fatal.`,
		Args: cobra.NoArgs,
		RunE: a.runReport,
	}
}

// NewMatchCommand creates the match command.
func (a *App) NewMatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <name>",
		Short: "Show the candidates for a single player name",
		Long: `Match fetches both rating exports and prints the exact, partial and
similar candidates for one name without writing a report. Several
arguments are joined with spaces.`,
		Example: `  rostermatch match "Foo Bar"
  rostermatch match foo bar --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runMatch,
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("rostermatch %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

func (a *App) runReport(cmd *cobra.Command, _ []string) error {
	ctx := a.runContext(cmd.Context())

	pipeline, err := a.Pipeline(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	_, err = pipeline.Run(ctx)
	return err
}

func (a *App) runMatch(cmd *cobra.Command, args []string) error {
	ctx := a.runContext(cmd.Context())
	name := strings.Join(args, " ")

	// progress goes to stderr so stdout stays parseable
	pipeline, err := a.Pipeline(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	result, err := pipeline.Match(ctx, name)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(report.WithLookupURL(a.config.LookupURL))
	format := output.DetectFormat(a.config.Format, cmd.OutOrStdout())
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.NewMatch(name, result, renderer))
}

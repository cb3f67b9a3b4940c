package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	sessionsSkip  int
	sessionsLimit int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse past analysis sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(true)
		if err != nil {
			return err
		}
		sessions, err := c.Sessions(cmd.Context(), sessionsSkip, sessionsLimit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			ui.Info("No sessions yet. Use 'codementor analyze FILE' to start one.")
			return nil
		}

		table := ui.Table([]string{"ID", "Type", "Language", "Topic", "Score", "Created"})
		for _, s := range sessions {
			_ = table.Append([]string{
				strconv.FormatInt(s.ID, 10),
				string(s.Type),
				s.Language,
				s.Topic,
				scoreColor(s.Score),
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		return table.Render()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one session with its issues and feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id %q", args[0])
		}
		c, err := newClient(true)
		if err != nil {
			return err
		}
		s, err := c.Session(cmd.Context(), id)
		if err != nil {
			return err
		}

		ui.Heading(fmt.Sprintf("Session %d", s.ID))
		fmt.Fprintf(ui.Out, "Type:      %s\n", s.Type)
		fmt.Fprintf(ui.Out, "Language:  %s\n", s.Language)
		fmt.Fprintf(ui.Out, "Topic:     %s\n", s.Topic)
		fmt.Fprintf(ui.Out, "Score:     %s\n", scoreColor(s.Score))
		fmt.Fprintf(ui.Out, "Duration:  %d min\n", s.DurationMinutes)
		fmt.Fprintf(ui.Out, "Created:   %s\n\n", s.CreatedAt.Local().Format("2006-01-02 15:04"))

		if len(s.Issues) > 0 {
			table := ui.Table([]string{"Type", "Severity", "Line", "Description"})
			for _, issue := range s.Issues {
				_ = table.Append([]string{
					string(issue.Type),
					severityColor(string(issue.Severity)),
					strconv.Itoa(issue.LineNumber),
					issue.Description,
				})
			}
			if err := table.Render(); err != nil {
				return err
			}
			fmt.Fprintln(ui.Out)
		}
		fmt.Fprintln(ui.Out, s.Feedback)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(true)
		if err != nil {
			return err
		}
		stats, err := c.Stats(cmd.Context())
		if err != nil {
			return err
		}

		ui.Heading("Learning Statistics")
		fmt.Fprintf(ui.Out, "Total Sessions:  %d\n", stats.TotalSessions)
		fmt.Fprintf(ui.Out, "Average Score:   %s\n", scoreColor(stats.AverageScore))
		fmt.Fprintf(ui.Out, "Best Score:      %s\n", scoreColor(stats.BestScore))
		fmt.Fprintf(ui.Out, "Time Practiced:  %.1f h\n", stats.TotalDurationHours)
		return nil
	},
}

func init() {
	sessionsListCmd.Flags().IntVar(&sessionsSkip, "skip", 0, "Number of sessions to skip")
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", 10, "Maximum sessions to list (max 100)")
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd)
	rootCmd.AddCommand(sessionsCmd, statsCmd)
}

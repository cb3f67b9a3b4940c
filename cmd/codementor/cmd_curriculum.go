package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

var topicsLevel string

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List curriculum topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(false)
		if err != nil {
			return err
		}
		topics, err := c.Topics(cmd.Context(), topicsLevel)
		if err != nil {
			return err
		}
		return printTopics(topics, nil)
	},
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Manage your learning path",
}

var pathGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a learning path for your skill level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(true)
		if err != nil {
			return err
		}
		path, err := c.GeneratePath(cmd.Context())
		if err != nil {
			return err
		}
		ui.Success("Generated a %s path: %d topics, about %d hours", path.CurrentLevel, len(path.Topics), path.EstimatedCompletionTime)
		return printPath(path)
	},
}

var pathShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your current learning path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(true)
		if err != nil {
			return err
		}
		path, err := c.CurrentPath(cmd.Context())
		if err != nil {
			return err
		}
		return printPath(path)
	},
}

var pathNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next topic to study",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(true)
		if err != nil {
			return err
		}
		step, err := c.NextStep(cmd.Context())
		if err != nil {
			return err
		}
		if step.Complete {
			ui.Success("Every topic on your path is complete.")
			return nil
		}
		if step.Topic == nil {
			printBlocked(step.Missing)
			return nil
		}
		topic := step.Topic
		fmt.Fprintf(ui.Out, "%s %s (%s, about %d hours)\n", bold("Next:"), topic.Title, topic.ID, topic.EstimatedHours)
		fmt.Fprintln(ui.Out, topic.Description)
		return nil
	},
}

var pathProgressCmd = &cobra.Command{
	Use:   "progress TOPIC_ID...",
	Short: "Mark topics complete",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(true)
		if err != nil {
			return err
		}
		report, err := c.RecordProgress(cmd.Context(), args)
		if err != nil {
			return err
		}
		fmt.Fprintf(ui.Out, "%s %.1f%%\n", progressBar(report.Progress, 30), report.Progress)
		fmt.Fprintln(ui.Out, report.Encouragement)
		switch {
		case report.NextTopic != nil:
			fmt.Fprintf(ui.Out, "%s %s\n", bold("Next:"), report.NextTopic.Title)
		case report.Blocked:
			printBlocked(report.Missing)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().StringVar(&topicsLevel, "level", "", "Only topics selected for this level (beginner, intermediate, advanced)")
	pathCmd.AddCommand(pathGenerateCmd, pathShowCmd, pathNextCmd, pathProgressCmd)
	rootCmd.AddCommand(topicsCmd, pathCmd)
}

func printBlocked(missing []string) {
	fmt.Fprintf(ui.Out, "%s no topic on your path is ready yet\n", bold("Blocked:"))
	if len(missing) > 0 {
		fmt.Fprintf(ui.Out, "Complete these prerequisites first: %s\n", strings.Join(missing, ", "))
	}
}

func printPath(path *domain.LearningPath) error {
	fmt.Fprintf(ui.Out, "%s %s → %s\n", bold("Level:"), path.CurrentLevel, path.TargetLevel)
	fmt.Fprintf(ui.Out, "%s %s %.1f%%\n\n", bold("Progress:"), progressBar(path.Progress, 30), path.Progress)

	done := make(map[string]bool, len(path.CompletedTopicIDs))
	for _, id := range path.CompletedTopicIDs {
		done[id] = true
	}
	if err := printTopics(path.Topics, done); err != nil {
		return err
	}

	if len(path.Tips) > 0 {
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, bold("Tips"))
		for _, tip := range path.Tips {
			fmt.Fprintf(ui.Out, "  • %s\n", tip)
		}
	}
	return nil
}

func printTopics(topics []domain.LearningTopic, done map[string]bool) error {
	headers := []string{"ID", "Title", "Difficulty", "Hours", "Prerequisites"}
	if done != nil {
		headers = append([]string{""}, headers...)
	}
	table := ui.Table(headers)
	for _, t := range topics {
		row := []string{t.ID, t.Title, string(t.Difficulty), strconv.Itoa(t.EstimatedHours), strings.Join(t.Prerequisites, ", ")}
		if done != nil {
			mark := " "
			if done[t.ID] {
				mark = green("✓")
			}
			row = append([]string{mark}, row...)
		}
		_ = table.Append(row)
	}
	return table.Render()
}

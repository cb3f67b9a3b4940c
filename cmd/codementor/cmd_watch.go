package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/queue"
)

var watchTypes []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail mentor events from RabbitMQ",
	Long: `Print analysis, path and progress events as the server publishes them.
Requires amqp_url (or CODEMENTOR_AMQP_URL) pointing at the broker the server
publishes to.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := viper.GetString("amqp_url")
		if url == "" {
			return fmt.Errorf("amqp_url is not set")
		}

		types := make([]domain.EventType, 0, len(watchTypes))
		for _, t := range watchTypes {
			types = append(types, domain.EventType(t))
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		conn, err := queue.NewConnection(url, logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		consumer := queue.NewConsumer(conn, printEvent, queue.ConsumerConfig{
			EventTypes: types,
			Logger:     logger,
		})
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		ui.Info("Watching %s (Ctrl+C to stop)", queue.ExchangeName)

		<-ctx.Done()
		consumer.Stop()
		return nil
	},
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchTypes, "type", nil, "Only these event types (analysis.completed, path.generated, progress.updated)")
	rootCmd.AddCommand(watchCmd)
}

func printEvent(_ context.Context, e domain.Event) error {
	session := ""
	if e.SessionID != nil {
		session = fmt.Sprintf(" session=%d", *e.SessionID)
	}
	fmt.Fprintf(ui.Out, "%s %s user=%s%s %s\n",
		e.OccurredAt.Local().Format("15:04:05"),
		cyan(string(e.Type)),
		e.UserID,
		session,
		string(e.Payload),
	)
	return nil
}

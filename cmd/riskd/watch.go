package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bibbank/risk-service/pkg/events"
	pkgkafka "github.com/bibbank/risk-service/pkg/kafka"
)

type watchFlags struct {
	topic string
	group string
}

func newWatchCmd(a *app) *cobra.Command {
	var flags watchFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print risk events published to Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(a.cfg.Kafka.Brokers) == 0 {
				return codeError(2, "KAFKA_BROKERS is required")
			}
			kcfg := a.cfg.KafkaClient()
			if cmd.Flags().Changed("group") {
				kcfg.ConsumerGroup = flags.group
			}
			topic := a.cfg.Kafka.Topic
			if flags.topic != "" {
				topic = flags.topic
			}

			out := cmd.OutOrStdout()
			consumer, err := pkgkafka.NewConsumer(kcfg, topic, func(_ context.Context, msg pkgkafka.Message) error {
				line, err := formatEnvelope(msg.Value)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, line)
				return err
			}, a.logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return consumer.Start(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.topic, "topic", "", "Topic to read (defaults to KAFKA_TOPIC)")
	f.StringVar(&flags.group, "group", "", "Consumer group; empty reads from the latest offset without committing")
	return cmd
}

// formatEnvelope renders one event as a single line.
func formatEnvelope(data []byte) (string, error) {
	env, err := events.DecodeEnvelope(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %-20s risk=%s %s",
		env.OccurredAt.UTC().Format("2006-01-02T15:04:05Z"),
		env.EventType,
		env.AggregateID,
		env.Payload,
	), nil
}

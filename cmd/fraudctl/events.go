package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	pkgkafka "github.com/bibbank/fraud-detection/pkg/kafka"
)

// eventLine is one consumed event as printed by `fraudctl events`.
type eventLine struct {
	EventType string          `json:"event_type"`
	Key       string          `json:"key"`
	Time      time.Time       `json:"time"`
	Payload   json.RawMessage `json:"payload"`
}

func eventsCmd(a *app) *cobra.Command {
	var (
		group         string
		fromBeginning bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail prediction and training events from Kafka",
		Long: `Print events published by fraudd and fraudctl train as JSON lines
until interrupted. Requires KAFKA_BROKERS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kcfg := a.cfg.Kafka()
			if len(kcfg.Brokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set")
			}
			kcfg.ConsumerGroup = group
			kcfg.StartFromLatest = !fromBeginning

			enc := json.NewEncoder(cmd.OutOrStdout())
			consumer, err := pkgkafka.NewConsumer(kcfg, a.cfg.KafkaTopic, func(_ context.Context, msg pkgkafka.Message) error {
				return enc.Encode(toEventLine(msg))
			}, a.logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			return consumer.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "consumer group; empty reads without committing offsets")
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "start from the oldest retained event")

	return cmd
}

func toEventLine(msg pkgkafka.Message) eventLine {
	payload := json.RawMessage(msg.Value)
	if !json.Valid(payload) {
		quoted, _ := json.Marshal(string(msg.Value))
		payload = quoted
	}
	return eventLine{
		EventType: msg.Headers["event_type"],
		Key:       string(msg.Key),
		Time:      msg.Time,
		Payload:   payload,
	}
}

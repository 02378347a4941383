package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/infrastructure/messaging"
)

func trainCmd(a *app) *cobra.Command {
	var (
		req    dto.TrainRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Generate synthetic data, train the model and save its artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			publisher, closePublisher, err := messaging.NewEventPublisher(a.cfg.Kafka(), a.cfg.KafkaTopic, a.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closePublisher(); err != nil {
					a.logger.Error("failed to close event publisher", "error", err)
				}
			}()

			report, err := usecase.NewTrainModel(a.store(), publisher, a.logger).
				Execute(cmd.Context(), req.WithDefaults(cmd.Flags().Changed))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintf(out, "Training Accuracy: %.4f\n", report.TrainAccuracy)
			fmt.Fprintf(out, "Testing Accuracy: %.4f\n", report.TestAccuracy)
			fmt.Fprintf(out, "Fraud precision: %.4f  recall: %.4f\n", report.FraudPrecision, report.FraudRecall)
			fmt.Fprintf(out, "Model saved to %s\n", report.ModelPath)
			fmt.Fprintf(out, "Scaler saved to %s\n", report.ScalerPath)
			return nil
		},
	}

	cmd.Flags().IntVarP(&req.Samples, "samples", "n", dto.DefaultSamples, "number of synthetic transactions")
	cmd.Flags().Uint64Var(&req.Seed, dto.OptionSeed, dto.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&req.NumTrees, "trees", dto.DefaultNumTrees, "number of trees in the forest")
	cmd.Flags().IntVar(&req.MaxDepth, dto.OptionMaxDepth, dto.DefaultMaxDepth, "maximum tree depth (0 grows until leaves are pure)")
	cmd.Flags().Float64Var(&req.TestFraction, "test-fraction", dto.DefaultTestFraction, "share of samples held out for testing")
	cmd.Flags().IntVar(&req.Workers, "workers", 0, "parallel tree builders (0 uses all CPUs)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the training report as JSON")

	return cmd
}

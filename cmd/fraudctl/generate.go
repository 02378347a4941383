package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/service"
)

var csvHeader = []string{"amount", "distance_from_home", "transaction_type", "is_fraud"}

func generateCmd() *cobra.Command {
	var (
		samples int
		seed    uint64
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the synthetic training table as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := service.GenerateTransactions(samples, seed)
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return writeCSV(cmd.OutOrStdout(), records)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := writeCSV(f, records); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "n", dto.DefaultSamples, "number of transactions")
	cmd.Flags().Uint64Var(&seed, "seed", dto.DefaultSeed, "random seed")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	return cmd
}

func writeCSV(w io.Writer, records []model.LabeledTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(csvHeader))
	for _, r := range records {
		row[0] = r.Amount().String()
		row[1] = strconv.FormatFloat(r.DistanceFromHome(), 'f', -1, 64)
		row[2] = strconv.Itoa(r.TransactionType().Code())
		row[3] = strconv.Itoa(r.Class())
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

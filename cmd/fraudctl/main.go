// Command fraudctl trains the fraud model and works with its artifacts and
// events from the command line.
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

	"github.com/bibbank/fraud-detection/internal/infrastructure/artifact"
	"github.com/bibbank/fraud-detection/internal/infrastructure/config"
	"github.com/bibbank/fraud-detection/pkg/observability"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	modelPath  string
	scalerPath string
}

func (a *app) store() *artifact.FileStore {
	return artifact.NewFileStore(a.scalerPath, a.modelPath)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "fraudctl",
		Short:         "Train and query the transaction fraud model",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = observability.InitLogger(observability.LogConfig{
				Level:   cfg.LogLevel,
				Format:  "text",
				Service: "fraudctl",
				Output:  logOut,
			})
			if a.modelPath == "" {
				a.modelPath = cfg.ModelPath
			}
			if a.scalerPath == "" {
				a.scalerPath = cfg.ScalerPath
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.modelPath, "model-path", "", "classifier artifact path (default $MODEL_PATH or fraud_model.json)")
	rootCmd.PersistentFlags().StringVar(&a.scalerPath, "scaler-path", "", "scaler artifact path (default $SCALER_PATH or scaler.json)")

	rootCmd.AddCommand(trainCmd(a))
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(predictCmd(a))
	rootCmd.AddCommand(eventsCmd(a))

	return rootCmd
}

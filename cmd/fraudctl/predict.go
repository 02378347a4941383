package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	grpcpresentation "github.com/bibbank/fraud-detection/internal/presentation/grpc"
	"github.com/bibbank/fraud-detection/pkg/tlsutil"
)

type remoteOptions struct {
	address    string
	tls        bool
	caFile     string
	serverName string
}

func predictCmd(a *app) *cobra.Command {
	var (
		amount, distance, txType string
		remote                   remoteOptions
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one transaction",
		Long: `Score one transaction and print the result as JSON.

Without --remote the model is loaded from the local artifacts. With --remote
the transaction is sent to a running fraudd over gRPC.`,
		Example: "  fraudctl predict --amount 1000 --distance 400 --type 0",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := parsePredictFlags(amount, distance, txType)
			if err != nil {
				return err
			}

			var resp dto.PredictionResponse
			if remote.address != "" {
				resp, err = predictRemote(cmd.Context(), remote, req)
			} else {
				resp, err = predictLocal(cmd.Context(), a, req)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "transaction amount")
	cmd.Flags().StringVar(&distance, "distance", "", "distance from home in km")
	cmd.Flags().StringVar(&txType, "type", "", "transaction type: 0 online, 1 in-store, 2 ATM")
	cmd.Flags().StringVar(&remote.address, "remote", "", "fraudd gRPC address (host:port)")
	cmd.Flags().BoolVar(&remote.tls, "tls", false, "use TLS for --remote")
	cmd.Flags().StringVar(&remote.caFile, "ca-file", "", "CA bundle for --tls (default system pool)")
	cmd.Flags().StringVar(&remote.serverName, "server-name", "", "TLS server name override")

	return cmd
}

// parsePredictFlags turns raw flag values into a request. Empty flags are
// missing fields.
func parsePredictFlags(amount, distance, txType string) (dto.PredictRequest, error) {
	names := []string{model.FieldAmount, model.FieldDistance, model.FieldTransactionType}
	raw := []string{amount, distance, txType}

	var missing []string
	for i, r := range raw {
		if r == "" {
			missing = append(missing, names[i])
		}
	}
	if len(missing) > 0 {
		return dto.PredictRequest{}, model.NewMissingFieldsError(missing...)
	}

	parsed := make([]*decimal.Decimal, len(raw))
	for i, r := range raw {
		d, err := decimal.NewFromString(r)
		if err != nil {
			return dto.PredictRequest{}, model.NewInvalidInputError(fmt.Sprintf("%s must be a number", names[i]), names[i])
		}
		parsed[i] = &d
	}

	return dto.PredictRequest{
		Amount:          parsed[0],
		Distance:        parsed[1],
		TransactionType: parsed[2],
	}, nil
}

func predictLocal(ctx context.Context, a *app, req dto.PredictRequest) (dto.PredictionResponse, error) {
	pipeline, err := usecase.NewLoadModel(a.store(), a.logger).Execute(ctx)
	if errors.Is(err, port.ErrArtifactNotFound) {
		return dto.PredictionResponse{}, fmt.Errorf("%w: run `fraudctl train` first", model.ErrModelUnavailable)
	}
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	return usecase.NewPredictTransaction(pipeline, nil, nil, a.logger).Execute(ctx, req)
}

func predictRemote(ctx context.Context, opts remoteOptions, req dto.PredictRequest) (dto.PredictionResponse, error) {
	creds := insecure.NewCredentials()
	if opts.tls {
		var err error
		creds, err = tlsutil.ClientCredentials(opts.caFile, opts.serverName)
		if err != nil {
			return dto.PredictionResponse{}, err
		}
	}

	conn, err := dial(opts.address, creds)
	if err != nil {
		return dto.PredictionResponse{}, err
	}
	defer conn.Close()

	resp, err := grpcpresentation.NewFraudDetectionServiceClient(conn).Predict(ctx, &grpcpresentation.PredictRequest{
		Amount:          req.Amount,
		Distance:        req.Distance,
		TransactionType: req.TransactionType,
	})
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("remote predict failed: %w", err)
	}

	return dto.PredictionResponse{
		Prediction:            resp.Prediction,
		IsFraud:               resp.IsFraud,
		Confidence:            resp.Confidence,
		FraudProbability:      resp.FraudProbability,
		LegitimateProbability: resp.LegitimateProbability,
	}, nil
}

func dial(address string, creds credentials.TransportCredentials) (*grpclib.ClientConn, error) {
	conn, err := grpclib.NewClient(address, grpclib.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return conn, nil
}

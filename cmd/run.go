package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go/types"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stellar/go-stellar-sdk/support/config"
	"github.com/stellar/go-stellar-sdk/support/log"
	"golang.org/x/term"

	"github.com/anchor-protocol/anchor-txs/internal/serve"
	"github.com/anchor-protocol/anchor-txs/internal/serve/httphandler"
	"github.com/anchor-protocol/anchor-txs/internal/transactions"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

var errRunFailed = errors.New("transaction run failed")

type runCmd struct{}

func (c *runCmd) Command() *cobra.Command {
	cfg := serve.Configs{}
	pipelineOpts := pipelineOptions{}
	req := transactions.Request{}

	cfgOpts := pipelineOpts.configOptions(&cfg)
	cfgOpts = append(cfgOpts,
		&config.ConfigOption{
			Name:      "address",
			Usage:     "The terra address of the user sending the transaction.",
			OptType:   types.String,
			ConfigKey: &req.Address,
			Required:  true,
		},
		&config.ConfigOption{
			Name:      "amount",
			Usage:     "The amount to send, in UST or bLuna depending on the transaction type.",
			OptType:   types.String,
			ConfigKey: &req.Amount,
			Required:  true,
		},
		&config.ConfigOption{
			Name:      "withdraw-to",
			Usage:     "The address receiving the borrowed UST. Defaults to the sender.",
			OptType:   types.String,
			ConfigKey: &req.WithdrawTo,
			Required:  false,
		},
	)

	validArgs := make([]string, 0, len(transactions.AllTxTypes))
	for _, txType := range transactions.AllTxTypes {
		validArgs = append(validArgs, txType.String())
	}

	cmd := &cobra.Command{
		Use:       "run <deposit|borrow|repay|redeem-collateral>",
		Short:     "Send one transaction through the wallet bridge and follow it until it settles",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: validArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfgOpts.RequireE(); err != nil {
				return fmt.Errorf("requiring values of config options: %w", err)
			}
			if err := cfgOpts.SetValues(); err != nil {
				return fmt.Errorf("setting values of config options: %w", err)
			}
			if err := pipelineOpts.resolve(&cfg); err != nil {
				return fmt.Errorf("resolving pipeline options: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.Run(ctx, cfg, transactions.TxType(args[0]), req, os.Stdout)
		},
	}

	if err := cfgOpts.Init(cmd); err != nil {
		log.Fatalf("Error initializing a config option: %s", err.Error())
	}

	return cmd
}

func (c *runCmd) Run(ctx context.Context, cfg serve.Configs, txType transactions.TxType, req transactions.Request, out *os.File) error {
	container, err := serve.NewStandaloneContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setting up service container: %w", err)
	}
	defer container.Close()

	stream, err := container.GetTransactionService().Start(ctx, txType, req)
	if err != nil {
		return fmt.Errorf("starting %s: %w", txType, err)
	}

	var printer renderingPrinter = ndjsonPrinter{encoder: json.NewEncoder(out)}
	if term.IsTerminal(int(out.Fd())) {
		printer = textPrinter{w: out}
	}

	last, err := followStream(ctx, stream, func(r tx.Rendering) error {
		return printer.Print(stream.ID(), r)
	})
	if err != nil {
		return err
	}
	if last.Phase != tx.PhaseSucceed {
		return errRunFailed
	}
	return nil
}

// followStream hands every rendering to handle until the run ends or ctx is cancelled, and returns the
// last one delivered.
func followStream(ctx context.Context, stream *tx.Stream, handle func(tx.Rendering) error) (tx.Rendering, error) {
	var last tx.Rendering
	for {
		select {
		case <-ctx.Done():
			stream.Cancel()
			return last, fmt.Errorf("following transaction run %s: %w", stream.ID(), ctx.Err())
		case r, ok := <-stream.Snapshots():
			if !ok {
				return last, nil
			}
			last = r
			if err := handle(r); err != nil {
				stream.Cancel()
				return last, fmt.Errorf("printing progress: %w", err)
			}
		}
	}
}

type renderingPrinter interface {
	Print(runID string, r tx.Rendering) error
}

type ndjsonPrinter struct {
	encoder *json.Encoder
}

func (p ndjsonPrinter) Print(runID string, r tx.Rendering) error {
	return p.encoder.Encode(httphandler.NewProgressLine(runID, r)) //nolint:wrapcheck
}

type textPrinter struct {
	w io.Writer
}

func (p textPrinter) Print(runID string, r tx.Rendering) error {
	if _, err := fmt.Fprintf(p.w, "[%s] %s\n", r.Phase, runID); err != nil {
		return err //nolint:wrapcheck
	}
	if r.FailedReason != nil {
		if _, err := fmt.Fprintf(p.w, "  %s: %s\n", r.FailedReason.Kind, r.FailedReason.Message()); err != nil {
			return err //nolint:wrapcheck
		}
		if r.FailedReason.ErrorID != "" {
			if _, err := fmt.Fprintf(p.w, "  Error ID: %s\n", r.FailedReason.ErrorID); err != nil {
				return err //nolint:wrapcheck
			}
		}
	}
	for _, receipt := range r.VisibleReceipts() {
		if _, err := fmt.Fprintf(p.w, "  %s: %s\n", receipt.Name, receipt.Value); err != nil {
			return err //nolint:wrapcheck
		}
	}
	for _, receiptErr := range r.ReceiptErrors {
		if _, err := fmt.Fprintf(p.w, "  (receipt unavailable: %s)\n", receiptErr.Message()); err != nil {
			return err //nolint:wrapcheck
		}
	}
	return nil
}

package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/metrics"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

var ErrUnsupportedTxType = errors.New("unsupported transaction type")

// Request is the input of any transaction kind. WithdrawTo only applies to borrow.
type Request struct {
	Address    string `json:"address" validate:"required,terra_address"`
	Amount     string `json:"amount" validate:"required,positive_amount"`
	WithdrawTo string `json:"withdrawTo,omitempty" validate:"omitempty,terra_address"`
}

// RunRecorder provides an observer persisting one run.
type RunRecorder interface {
	Observer(ctx context.Context, txType, address string) tx.Observer
}

type Service interface {
	Start(ctx context.Context, txType TxType, req Request) (*tx.Stream, error)
}

type service struct {
	deps           Deps
	metricsService metrics.MetricsService
	recorder       RunRecorder
}

var _ Service = (*service)(nil)

type ServiceOptions struct {
	Deps           Deps
	MetricsService metrics.MetricsService
	// Recorder is optional.
	Recorder RunRecorder
}

func (o ServiceOptions) Validate() error {
	if err := o.Deps.Validate(); err != nil {
		return fmt.Errorf("validating deps: %w", err)
	}
	if o.MetricsService == nil {
		return errors.New("metrics service is required")
	}
	return nil
}

func NewService(opts ServiceOptions) (*service, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validating transaction service options: %w", err)
	}
	return &service{
		deps:           opts.Deps,
		metricsService: opts.MetricsService,
		recorder:       opts.Recorder,
	}, nil
}

// Start validates req and starts a run of txType, instrumented and recorded.
func (s *service) Start(ctx context.Context, txType TxType, req Request) (*tx.Stream, error) {
	if err := ValidateParams(req); err != nil {
		return nil, err
	}

	observers := []tx.Observer{s.metricsObserver(txType)}
	if s.recorder != nil {
		observers = append(observers, s.recorder.Observer(ctx, txType.String(), req.Address))
	}

	params := Params{Address: req.Address, Amount: req.Amount}
	var stream *tx.Stream
	switch txType {
	case TxTypeDeposit:
		stream = Deposit(ctx, s.deps, DepositParams{Params: params}, observers...)
	case TxTypeBorrow:
		stream = Borrow(ctx, s.deps, BorrowParams{Params: params, WithdrawTo: req.WithdrawTo}, observers...)
	case TxTypeRepay:
		stream = Repay(ctx, s.deps, RepayParams{Params: params}, observers...)
	case TxTypeRedeemCollateral:
		stream = RedeemCollateral(ctx, s.deps, RedeemCollateralParams{Params: params}, observers...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTxType, txType)
	}

	log.Ctx(ctx).Infof("started %s run %s for %s", txType, stream.ID(), req.Address)
	s.metricsService.IncPipelineRuns(txType.String())
	s.metricsService.IncActiveStreams()
	go func() {
		<-stream.Done()
		s.metricsService.DecActiveStreams()
	}()

	return stream, nil
}

func (s *service) metricsObserver(txType TxType) tx.Observer {
	startTime := time.Now()
	var lastPhase tx.Phase

	return func(runID string, r tx.Rendering) {
		if r.Phase != lastPhase {
			s.metricsService.IncPhaseTransitions(txType.String(), r.Phase.String())
			lastPhase = r.Phase
		}
		if !r.IsTerminal() {
			return
		}

		outcome := "succeed"
		if r.FailedReason != nil {
			outcome = string(r.FailedReason.Kind)
		}
		s.metricsService.IncPipelineOutcomes(txType.String(), outcome)
		s.metricsService.ObservePipelineDuration(txType.String(), outcome, time.Since(startTime).Seconds())
		if len(r.ReceiptErrors) > 0 {
			s.metricsService.IncReceiptErrors(txType.String())
		}
	}
}

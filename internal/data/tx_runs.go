package data

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/null"

	"github.com/anchor-protocol/anchor-txs/internal/db"
	"github.com/anchor-protocol/anchor-txs/internal/metrics"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
	"github.com/anchor-protocol/anchor-txs/internal/utils"
)

var ErrTxRunNotFound = errors.New("transaction run not found")

// ReceiptList is stored as a JSON array.
type ReceiptList []tx.Receipt

func (l ReceiptList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]tx.Receipt(l))
	if err != nil {
		return nil, fmt.Errorf("marshalling receipts: %w", err)
	}
	return string(b), nil
}

func (l *ReceiptList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported receipts column type %T", src)
	}
	if err := json.Unmarshal(raw, (*[]tx.Receipt)(l)); err != nil {
		return fmt.Errorf("unmarshalling receipts: %w", err)
	}
	return nil
}

type TxRun struct {
	ID           string      `db:"id" json:"id"`
	TxType       string      `db:"tx_type" json:"txType"`
	Address      string      `db:"address" json:"address"`
	Phase        string      `db:"phase" json:"phase"`
	TxHash       null.String `db:"tx_hash" json:"txHash"`
	ErrorKind    null.String `db:"error_kind" json:"errorKind"`
	ErrorID      null.String `db:"error_id" json:"errorId"`
	ErrorMessage null.String `db:"error_message" json:"errorMessage"`
	Receipts     ReceiptList `db:"receipts" json:"receipts"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// TxRunModel persists the progress of transaction runs so their outcome can be looked up after the
// stream that reported it is gone.
type TxRunModel struct {
	DB             db.ConnectionPool
	MetricsService metrics.MetricsService
}

const txRunColumns = `id, tx_type, address, phase, tx_hash, error_kind, error_id, error_message, receipts, created_at, updated_at`

// Upsert inserts the run or moves an existing one to run's phase, outcome and receipts.
func (m *TxRunModel) Upsert(ctx context.Context, run TxRun) error {
	query := m.DB.Rebind(`
		INSERT INTO tx_runs (id, tx_type, address, phase, tx_hash, error_kind, error_id, error_message, receipts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			phase = excluded.phase,
			tx_hash = excluded.tx_hash,
			error_kind = excluded.error_kind,
			error_id = excluded.error_id,
			error_message = excluded.error_message,
			receipts = excluded.receipts,
			updated_at = CURRENT_TIMESTAMP`)

	start := time.Now()
	err := utils.RetryOnDeadlock(ctx, func() error {
		_, execErr := m.DB.ExecContext(ctx, query,
			run.ID, run.TxType, run.Address, run.Phase, run.TxHash, run.ErrorKind, run.ErrorID, run.ErrorMessage, run.Receipts)
		return execErr //nolint:wrapcheck
	})
	m.MetricsService.ObserveDBQueryDuration("Upsert", "tx_runs", time.Since(start).Seconds())
	if err != nil {
		m.MetricsService.IncDBQueryError("Upsert", "tx_runs", utils.GetDBErrorType(err))
		return fmt.Errorf("upserting transaction run %s: %w", run.ID, err)
	}
	m.MetricsService.IncDBQuery("Upsert", "tx_runs")
	return nil
}

func (m *TxRunModel) Get(ctx context.Context, id string) (*TxRun, error) {
	query := m.DB.Rebind(`SELECT ` + txRunColumns + ` FROM tx_runs WHERE id = ?`)

	var run TxRun
	start := time.Now()
	err := m.DB.GetContext(ctx, &run, query, id)
	m.MetricsService.ObserveDBQueryDuration("Get", "tx_runs", time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			m.MetricsService.IncDBQuery("Get", "tx_runs")
			return nil, ErrTxRunNotFound
		}
		m.MetricsService.IncDBQueryError("Get", "tx_runs", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("getting transaction run %s: %w", id, err)
	}
	m.MetricsService.IncDBQuery("Get", "tx_runs")
	return &run, nil
}

// ListByAddress returns the latest runs of address, newest first.
func (m *TxRunModel) ListByAddress(ctx context.Context, address string, limit int) ([]TxRun, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	query := m.DB.Rebind(`SELECT ` + txRunColumns + ` FROM tx_runs WHERE address = ? ORDER BY created_at DESC, id DESC LIMIT ?`)

	runs := []TxRun{}
	start := time.Now()
	err := m.DB.SelectContext(ctx, &runs, query, address, limit)
	m.MetricsService.ObserveDBQueryDuration("ListByAddress", "tx_runs", time.Since(start).Seconds())
	if err != nil {
		m.MetricsService.IncDBQueryError("ListByAddress", "tx_runs", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("listing transaction runs of %s: %w", address, err)
	}
	m.MetricsService.IncDBQuery("ListByAddress", "tx_runs")
	return runs, nil
}

package httphandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/stellar/go-stellar-sdk/support/render/httpjson"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/data"
	"github.com/anchor-protocol/anchor-txs/internal/serve/httperror"
)

type TxRunReader interface {
	Get(ctx context.Context, id string) (*data.TxRun, error)
	ListByAddress(ctx context.Context, address string, limit int) ([]data.TxRun, error)
}

var _ TxRunReader = (*data.TxRunModel)(nil)

type TxRunsHandler struct {
	TxRuns     TxRunReader
	AppTracker apptracker.AppTracker
}

type TxRunRequest struct {
	ID string `validate:"required,uuid"`
}

type TxRunsRequest struct {
	Address string `query:"address" validate:"required,terra_address"`
	Limit   int    `query:"limit" validate:"gt=0,lte=100"`
}

type TxRunsResponse struct {
	TxRuns []data.TxRun `json:"txRuns"`
}

func (h TxRunsHandler) GetTxRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reqParams := TxRunRequest{ID: chi.URLParam(r, "id")}
	if httpErr := ValidateRequestParams(ctx, &reqParams, h.AppTracker); httpErr != nil {
		httpErr.Render(w)
		return
	}

	run, err := h.TxRuns.Get(ctx, reqParams.ID)
	if err != nil {
		if errors.Is(err, data.ErrTxRunNotFound) {
			httperror.NotFoundWithMessage("Transaction run not found.").Render(w)
			return
		}
		httperror.InternalServerError(ctx, "", err, nil, h.AppTracker).Render(w)
		return
	}

	httpjson.Render(w, run, httpjson.JSON)
}

// ListTxRuns returns the latest runs started for an address, newest first.
func (h TxRunsHandler) ListTxRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reqQuery := TxRunsRequest{Limit: 20}
	if httpErr := DecodeQueryAndValidate(ctx, r, &reqQuery, h.AppTracker); httpErr != nil {
		httpErr.Render(w)
		return
	}

	runs, err := h.TxRuns.ListByAddress(ctx, reqQuery.Address, reqQuery.Limit)
	if err != nil {
		httperror.InternalServerError(ctx, "", err, nil, h.AppTracker).Render(w)
		return
	}

	httpjson.Render(w, TxRunsResponse{TxRuns: runs}, httpjson.JSON)
}

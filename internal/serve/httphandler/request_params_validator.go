package httphandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/stellar/go-stellar-sdk/support/http/httpdecode"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/serve/httperror"
	"github.com/anchor-protocol/anchor-txs/internal/validators"
)

func DecodeJSONAndValidate(ctx context.Context, req *http.Request, reqBody interface{}, appTracker apptracker.AppTracker) *httperror.ErrorResponse {
	err := httpdecode.DecodeJSON(req, reqBody)
	if err != nil {
		return httperror.BadRequest("Invalid request body.", nil)
	}

	return ValidateRequestParams(ctx, reqBody, appTracker)
}

func DecodeQueryAndValidate(ctx context.Context, req *http.Request, reqQuery interface{}, appTracker apptracker.AppTracker) *httperror.ErrorResponse {
	err := httpdecode.DecodeQuery(req, reqQuery)
	if err != nil {
		return httperror.BadRequest("Invalid request URL params.", nil)
	}

	return ValidateRequestParams(ctx, reqQuery, appTracker)
}

func ValidateRequestParams(ctx context.Context, reqParams interface{}, appTracker apptracker.AppTracker) *httperror.ErrorResponse {
	val := validators.NewValidator()
	if err := val.StructCtx(ctx, reqParams); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			extras := validators.ParseValidationError(vErrs)
			return httperror.BadRequest("Validation error.", extras)
		}
		return httperror.InternalServerError(ctx, "", err, nil, appTracker)
	}
	return nil
}

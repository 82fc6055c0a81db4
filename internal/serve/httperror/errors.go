package httperror

import (
	"context"
	"net/http"

	"github.com/stellar/go-stellar-sdk/support/log"
	"github.com/stellar/go-stellar-sdk/support/render/httpjson"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
)

type ErrorResponse struct {
	Status int                    `json:"-"`
	Error  string                 `json:"error"`
	Extras map[string]interface{} `json:"extras,omitempty"`
}

func (e ErrorResponse) Render(w http.ResponseWriter) {
	httpjson.RenderStatus(w, e.Status, e, httpjson.JSON)
}

type ErrorHandler struct {
	Error ErrorResponse
}

func (h ErrorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Error.Render(w)
}

var NotFound = ErrorResponse{
	Status: http.StatusNotFound,
	Error:  "The resource at the url requested was not found.",
}

var MethodNotAllowed = ErrorResponse{
	Status: http.StatusMethodNotAllowed,
	Error:  "The method is not allowed for resource at the url requested.",
}

func BadRequest(message string, extras map[string]interface{}) *ErrorResponse {
	if message == "" {
		message = "Invalid request"
	}

	return &ErrorResponse{
		Status: http.StatusBadRequest,
		Error:  message,
		Extras: extras,
	}
}

func NotFoundWithMessage(message string) *ErrorResponse {
	if message == "" {
		return &NotFound
	}
	return &ErrorResponse{Status: http.StatusNotFound, Error: message}
}

// InternalServerError logs err and reports it to the app tracker. The tracker's event id, when it assigns
// one, is returned in the extras under "errorId" so users can quote it.
func InternalServerError(ctx context.Context, message string, err error, extras map[string]interface{}, appTracker apptracker.AppTracker) *ErrorResponse {
	log.Ctx(ctx).Error(err)
	if message == "" {
		message = "An error occurred while processing this request."
	}

	if appTracker == nil {
		log.Ctx(ctx).Warn("App Tracker is nil")
	} else if eventID := appTracker.CaptureException(err); eventID != "" {
		if extras == nil {
			extras = map[string]interface{}{}
		}
		extras["errorId"] = eventID
	}

	return &ErrorResponse{
		Status: http.StatusInternalServerError,
		Error:  message,
		Extras: extras,
	}
}

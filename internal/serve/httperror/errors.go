package httperror

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httpjson"
)

type ErrorResponse struct {
	Status int                    `json:"-"`
	Error  string                 `json:"error"`
	Extras map[string]interface{} `json:"extras,omitempty"`
}

func (e ErrorResponse) Render(w http.ResponseWriter) {
	httpjson.RenderStatus(w, e.Status, e)
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

func ServiceUnavailable(message string, extras map[string]interface{}) *ErrorResponse {
	if message == "" {
		message = "The service is temporarily unavailable."
	}

	return &ErrorResponse{
		Status: http.StatusServiceUnavailable,
		Error:  message,
		Extras: extras,
	}
}

func BadGateway(message string, extras map[string]interface{}) *ErrorResponse {
	if message == "" {
		message = "The upstream chain node could not serve the request."
	}

	return &ErrorResponse{
		Status: http.StatusBadGateway,
		Error:  message,
		Extras: extras,
	}
}

func InternalServerError(ctx context.Context, message string, err error, extras map[string]interface{}, appTracker apptracker.AppTracker) *ErrorResponse {
	logrus.WithContext(ctx).Error(err)
	if appTracker != nil {
		appTracker.CaptureException(err)
	} else {
		logrus.Warn("App Tracker is nil")
	}

	if message == "" {
		message = "An error occurred while processing this request."
	}

	return &ErrorResponse{
		Status: http.StatusInternalServerError,
		Error:  message,
		Extras: extras,
	}
}

package httperror

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
)

func TestErrorResponseRender(t *testing.T) {
	rr := httptest.NewRecorder()
	NotFound.Render(rr)

	assert.Equal(t, 404, rr.Code)
	assert.JSONEq(t, `{"error": "The resource at the url requested was not found."}`, rr.Body.String())
}

func TestBadRequest(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		BadRequest("", nil).Render(rr)
		assert.Equal(t, 400, rr.Code)
		assert.JSONEq(t, `{"error": "Invalid request"}`, rr.Body.String())
	})

	t.Run("custom message with extras", func(t *testing.T) {
		rr := httptest.NewRecorder()
		BadRequest("goal out of range", map[string]interface{}{"field": "goal"}).Render(rr)
		assert.Equal(t, 400, rr.Code)
		assert.JSONEq(t, `{"error": "goal out of range", "extras": {"field": "goal"}}`, rr.Body.String())
	})
}

func TestServiceUnavailable(t *testing.T) {
	rr := httptest.NewRecorder()
	ServiceUnavailable("", nil).Render(rr)
	assert.Equal(t, 503, rr.Code)
	assert.JSONEq(t, `{"error": "The service is temporarily unavailable."}`, rr.Body.String())
}

func TestBadGateway(t *testing.T) {
	rr := httptest.NewRecorder()
	BadGateway("submitting createCampaign: nonce too low", nil).Render(rr)
	assert.Equal(t, 502, rr.Code)
	assert.JSONEq(t, `{"error": "submitting createCampaign: nonce too low"}`, rr.Body.String())
}

func TestInternalServerError(t *testing.T) {
	underlying := errors.New("db write failed")

	appTrackerMock := apptracker.MockAppTracker{}
	appTrackerMock.On("CaptureException", underlying).Return().Once()
	defer appTrackerMock.AssertExpectations(t)

	rr := httptest.NewRecorder()
	InternalServerError(context.Background(), "", underlying, nil, &appTrackerMock).Render(rr)
	assert.Equal(t, 500, rr.Code)
	assert.JSONEq(t, `{"error": "An error occurred while processing this request."}`, rr.Body.String())
}

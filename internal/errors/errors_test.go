package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrDatasetNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DATASET_NOT_FOUND", body.ErrorCode)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("year", "must be between 1853 and 2025")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "year", detail.Field)
}

func TestDatasetFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := DatasetFetchError("vesuvius.csv", cause)

	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Contains(t, err.Message, "vesuvius.csv")
	assert.Equal(t, "connection refused", err.Details)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	api := ErrPanelNotFound
	assert.Same(t, api, FromError(api))

	wrapped := FromError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, wrapped.StatusCode)
	assert.Equal(t, "boom", wrapped.Details)
}

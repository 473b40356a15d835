// Package httpjson renders JSON HTTP responses.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Render writes v as a JSON response with status 200.
func Render(w http.ResponseWriter, v any) {
	RenderStatus(w, http.StatusOK, v)
}

// RenderStatus writes v as a JSON response with the given status code.
func RenderStatus(w http.ResponseWriter, status int, v any) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.WithError(err).Error("Marshaling JSON response failed")
		http.Error(w, `{"error": "An error occurred while processing this request."}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Decode parses the request body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

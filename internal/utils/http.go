package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBody bounds request bodies read by ReadJSON. A device record is
// at most 64 KiB, so 4 MiB leaves room for base64 and an AppInfo block.
const MaxJSONBody = 4 << 20

var ErrTrailingData = errors.New("unexpected data after JSON value")

// WriteJSON marshals data and writes it with statusCode and an
// application/json content type. A marshal failure is answered with 500
// and returned.
//
//	WriteJSON(w, models.ErrorResponse{Code: models.BridgeErrRecordNotFound}, http.StatusNotFound)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// ReadJSON decodes exactly one JSON value from the request body into v.
// Bodies over MaxJSONBody and bodies with anything after the value are
// rejected.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ukydev/urbanhive/internal/geo"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty request body")

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGeoError answers 400 for coordinates the geo package cannot use.
func writeGeoError(w http.ResponseWriter, err error) {
	var verr *geo.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid location")
}

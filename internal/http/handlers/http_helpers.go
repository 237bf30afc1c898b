package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func parseIntParam(q url.Values, name string) (*int, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format", name)
	}
	return &v, nil
}

// parsePagination reads offset and limit; limit must be positive and offset non-negative.
func parsePagination(q url.Values) (offset, limit *int, err error) {
	if limit, err = parseIntParam(q, "limit"); err != nil {
		return nil, nil, err
	}
	if limit != nil && *limit <= 0 {
		return nil, nil, errors.New("limit must be greater than zero")
	}
	if offset, err = parseIntParam(q, "offset"); err != nil {
		return nil, nil, err
	}
	if offset != nil && *offset < 0 {
		return nil, nil, errors.New("offset must be zero or positive")
	}
	return offset, limit, nil
}

// parseTimeParam parses an RFC3339 query value. An unescaped '+' in the zone offset
// arrives as a space and is put back before parsing.
func parseTimeParam(q url.Values, name string) (*time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, strings.Replace(raw, " ", "+", 1))
	if err != nil {
		return nil, fmt.Errorf("invalid %s date format", name)
	}
	return &ts, nil
}

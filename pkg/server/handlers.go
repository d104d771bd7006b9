package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/stackorder/pkg/errors"
	"github.com/matzehuels/stackorder/pkg/manifest"
	"github.com/matzehuels/stackorder/pkg/pipeline"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSort(grouped bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseOptions(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		opts.Grouped = grouped
		opts.Logger = s.logger.With("request_id", RequestIDFromContext(r.Context()))

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
			return
		}
		m, err := manifest.Read(bytes.NewReader(body), manifest.FormatJSON)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		result, err := s.runner.Run(r.Context(), m, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// parseOptions reads pipeline options from the query string.
func parseOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options

	boolParam := func(name string) (*bool, error) {
		v := q.Get(name)
		if v == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
		}
		return &b, nil
	}

	var err error
	if opts.DetectCycles, err = boolParam("detect_cycles"); err != nil {
		return opts, err
	}
	if opts.SameTypeGrouping, err = boolParam("same_type_grouping"); err != nil {
		return opts, err
	}
	intercept, err := boolParam("intercept_cycles")
	if err != nil {
		return opts, err
	}
	opts.InterceptCycles = intercept != nil && *intercept

	refresh, err := boolParam("refresh")
	if err != nil {
		return opts, err
	}
	opts.Refresh = refresh != nil && *refresh

	if opts.Encoding, err = topsort.ParseEncoding(q.Get("encoding")); err != nil {
		return opts, err
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

const (
	// MaxBodyBytes bounds JSON bodies.
	MaxBodyBytes = 1 << 20
	// MaxMultipartMemory is kept in memory before spilling files to disk.
	MaxMultipartMemory = 8 << 20
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

// GetParam reads a path parameter stored by httprouter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamInt64 parses a path parameter as a positive int64.
func (r *Request) GetParamInt64(key string) (int64, error) {
	v, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil || v <= 0 {
		return 0, goerror.NewInvalidFormat("param " + key + " must be a positive integer")
	}
	return v, nil
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt64s parses a comma separated list such as ?user_ids=1,2,3.
// Repeated keys are merged.
func (r *Request) GetQueryInt64s(key string) ([]int64, error) {
	var out []int64
	for _, raw := range r.URL.Query()[key] {
		for part := range strings.SplitSeq(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, goerror.NewInvalidFormat("query " + key + " must be a list of integers")
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// DecodeBody decodes exactly one JSON value into dst, rejecting unknown fields.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}

// ParseMultipart parses a multipart/form-data body once; later calls are no-ops.
func (r *Request) ParseMultipart() error {
	if r.MultipartForm != nil {
		return nil
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return goerror.NewInvalidFormat("Invalid request content-type")
	}
	if err := r.ParseMultipartForm(MaxMultipartMemory); err != nil {
		return goerror.NewInvalidFormat()
	}
	return nil
}

// GetForm returns a trimmed multipart field.
func (r *Request) GetForm(key string) string {
	if r.MultipartForm == nil {
		return ""
	}
	if v := r.MultipartForm.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// GetFiles returns the files uploaded under field, at most limit of them.
func (r *Request) GetFiles(field string, limit int) ([]*multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[field]
	if limit > 0 && len(files) > limit {
		return nil, goerror.NewInvalidInput(nil, field, "at most "+strconv.Itoa(limit)+" files are allowed")
	}
	return files, nil
}

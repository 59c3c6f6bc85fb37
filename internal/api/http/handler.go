package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"library-backend/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

func decodeBody(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidArgument, name)
	}
	return int32(id), nil
}

func queryPage(r *http.Request) (page, pageSize int32) {
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil {
		pageSize = int32(v)
	}
	return page, pageSize
}

// pagedResponse wraps list endpoints with the total row count so clients can
// render pagination.
type pagedResponse struct {
	Items      interface{} `json:"items"`
	TotalCount int32       `json:"total_count"`
	Page       int32       `json:"page"`
	PageSize   int32       `json:"page_size"`
}

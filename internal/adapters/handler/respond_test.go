package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not_found",
			err:        fmt.Errorf("%w: request 42", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "not found: request 42",
		},
		{
			name:       "invalid_argument",
			err:        fmt.Errorf("%w: bad status", domain.ErrInvalidArgument),
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid argument: bad status",
		},
		{
			name:       "conflict",
			err:        domain.ErrConflict,
			wantStatus: http.StatusConflict,
			wantBody:   domain.ErrConflict.Error(),
		},
		{
			name:       "dependency_failure_is_masked",
			err:        fmt.Errorf("%w: redis timeout on node 3", domain.ErrDependencyFailure),
			wantStatus: http.StatusBadGateway,
			wantBody:   "upstream dependency failed",
		},
		{
			name:       "unknown_errors_never_leak",
			err:        errors.New("pq: column users.ssn does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("want status %d, got %d", tt.wantStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("want JSON content type, got %q", ct)
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if body.Error != tt.wantBody {
				t.Errorf("want body %q, got %q", tt.wantBody, body.Error)
			}
		})
	}
}

func TestPageQueryParsing(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    domain.PageQuery
		wantErr bool
	}{
		{name: "defaults", target: "/requests", want: domain.PageQuery{}},
		{name: "explicit", target: "/requests?page=3&per_page=25", want: domain.PageQuery{Page: 3, PerPage: 25}},
		{name: "all", target: "/requests?all=true", want: domain.PageQuery{All: true}},
		{name: "all_requires_exact_true", target: "/requests?all=1", want: domain.PageQuery{}},
		{name: "garbage_page", target: "/requests?page=abc", wantErr: true},
		{name: "garbage_per_page", target: "/requests?per_page=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			got, err := pageQuery(r)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidArgument) {
					t.Errorf("want ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %+v, got %+v", tt.want, got)
			}
		})
	}
}

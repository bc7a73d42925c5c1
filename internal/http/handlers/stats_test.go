package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type statsTestSQL struct {
	row simpleRow
}

func (s *statsTestSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *statsTestSQL) QueryRow(context.Context, string, ...any) pgx.Row {
	return s.row
}

func (s *statsTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func TestStatsSummary(t *testing.T) {
	app := &App{SQL: &statsTestSQL{row: simpleRow{scan: func(dest ...any) error {
		*dest[0].(*int64) = 42      // volunteers
		*dest[1].(*int64) = 3       // upcoming events
		*dest[2].(*int64) = 17      // total events
		*dest[3].(*float64) = 128.5 // hours
		*dest[4].(*int64) = 9       // donations
		*dest[5].(*float64) = 45000 // donated
		return nil
	}}}}

	req := httptest.NewRequest("GET", "/v1/stats", nil)
	rr := httptest.NewRecorder()

	app.StatsSummary(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status code: got %d, want 200", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["total_volunteers"] != float64(42) {
		t.Fatalf("expected 42 volunteers, got %#v", payload["total_volunteers"])
	}
	if payload["total_hours"] != 128.5 {
		t.Fatalf("expected 128.5 hours, got %#v", payload["total_hours"])
	}
}

func TestStatsSummary_ScanFailure(t *testing.T) {
	app := &App{SQL: &statsTestSQL{row: simpleRow{}}}

	req := httptest.NewRequest("GET", "/v1/stats", nil)
	rr := httptest.NewRecorder()

	app.StatsSummary(rr, req)

	if rr.Code != 500 {
		t.Fatalf("unexpected status code: got %d, want 500", rr.Code)
	}
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staybook/pkg/model"
)

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{name: "defaults", query: "", wantLimit: 10, wantOffset: 0},
		{name: "explicit", query: "?limit=25&offset=50", wantLimit: 25, wantOffset: 50},
		{name: "limit clamped", query: "?limit=1000", wantLimit: 100, wantOffset: 0},
		{name: "negative offset", query: "?offset=-5", wantLimit: 10, wantOffset: 0},
		{name: "bad limit", query: "?limit=ten", wantErr: true},
		{name: "bad offset", query: "?offset=1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/properties"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got limit=%d offset=%d, want %d/%d", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestExtractDateRange(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?check_in=2024-07-10&check_out=2024-07-14", nil)
	rng, err := ExtractDateRange(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.NewDateRange(model.NewDate(2024, time.July, 10), model.NewDate(2024, time.July, 14))
	if !rng.Start.Equal(want.Start) || !rng.End.Equal(want.End) {
		t.Errorf("got %s, want %s", rng, want)
	}

	for _, q := range []string{"?check_in=2024-07-10", "?check_in=07/10/2024&check_out=2024-07-14"} {
		r := httptest.NewRequest(http.MethodGet, "/"+q, nil)
		if _, err := ExtractDateRange(r); err == nil {
			t.Errorf("%s: expected error", q)
		}
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc func(ctx context.Context, b *model.Booking) error
	updateFunc func(ctx context.Context, id string, u *model.BookingUpdate) (*model.Booking, error)
	deleteFunc func(ctx context.Context, id string) error
	searchFunc func(ctx context.Context, f model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
}

func (m *mockBookingService) Create(ctx context.Context, b *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, u *model.BookingUpdate) (*model.Booking, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, u)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingService) Search(ctx context.Context, f model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, f, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"property_id":"665f1c2e8a1b2c3d4e5f6a7b","guest_name":"Ada","guest_email":"ada@example.com","check_in":"2024-06-10","check_out":"2024-06-15","guests":2}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			body:       `{"check_in":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad date format",
			body:       `{"check_in":"10/06/2024"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unavailable",
			body:       `{"check_in":"2024-06-10","check_out":"2024-06-15"}`,
			createErr:  errors.Conflict("Property is already booked from 2024-06-10 to 2024-06-15"),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received model.Booking
			router := newTestRouter(&mockBookingService{
				createFunc: func(ctx context.Context, b *model.Booking) error {
					received = *b
					return tt.createErr
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusCreated && !received.CheckOut.Equal(model.NewDate(2024, 6, 15)) {
				t.Errorf("check_out = %v", received.CheckOut)
			}
			if tt.wantStatus == http.StatusConflict && !strings.Contains(rec.Body.String(), "already booked") {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFilter model.BookingFilter
	}{
		{
			name:       "missing property",
			query:      "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid date",
			query:      "?property_id=p1&check_in=2024-13-01",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "property only",
			query:      "?property_id=p1",
			wantStatus: http.StatusOK,
			wantFilter: model.BookingFilter{PropertyID: "p1"},
		},
		{
			name:       "with range and status",
			query:      "?property_id=p1&check_in=2024-06-10&check_out=2024-06-15&status=confirmed",
			wantStatus: http.StatusOK,
			wantFilter: model.BookingFilter{PropertyID: "p1", Status: "confirmed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.BookingFilter
			router := newTestRouter(&mockBookingService{
				searchFunc: func(ctx context.Context, f model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
					got = f
					return []*model.Booking{{ID: "b1"}}, 1, nil
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/search"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if got.PropertyID != tt.wantFilter.PropertyID || got.Status != tt.wantFilter.Status {
				t.Errorf("filter = %+v, want %+v", got, tt.wantFilter)
			}
			if strings.Contains(tt.query, "check_in") && (got.CheckIn == nil || got.CheckOut == nil) {
				t.Errorf("expected both dates in filter, got %+v", got)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body["total_count"] != float64(1) {
				t.Errorf("total_count = %v", body["total_count"])
			}
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	router := newTestRouter(&mockBookingService{
		updateFunc: func(ctx context.Context, id string, u *model.BookingUpdate) (*model.Booking, error) {
			if u.Status == nil || *u.Status != "cancelled" {
				t.Errorf("status update not decoded: %+v", u)
			}
			return &model.Booking{ID: id, Status: *u.Status}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			return errors.NotFoundWithID("Booking", id)
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/b1", strings.NewReader(`{"status":"cancelled"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("PATCH status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/b1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("DELETE status = %d, want 404", rec.Code)
	}
}

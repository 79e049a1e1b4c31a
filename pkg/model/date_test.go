package model

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDateOf(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "utc midnight", in: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), want: "2024-08-01"},
		{name: "late utc evening", in: time.Date(2024, 8, 1, 23, 59, 0, 0, time.UTC), want: "2024-08-01"},
		{name: "keeps own zone date", in: time.Date(2024, 8, 2, 1, 0, 0, 0, tokyo), want: "2024-08-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateOf(tt.in)
			if got.String() != tt.want {
				t.Errorf("DateOf() = %s, want %s", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("DateOf() location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(NewDate(2024, time.June, 10)) {
		t.Errorf("ParseDate() = %s", d)
	}

	for _, bad := range []string{"", "10/06/2024", "2024-13-01", "2024-06-10T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		CheckIn Date  `json:"check_in"`
		From    *Date `json:"from,omitempty"`
	}

	data, err := json.Marshal(payload{CheckIn: NewDate(2024, time.June, 10)})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"check_in":"2024-06-10"}` {
		t.Errorf("unexpected json: %s", data)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"check_in":"2024-06-15","from":"2024-01-01"}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.CheckIn.String() != "2024-06-15" || p.From == nil || p.From.String() != "2024-01-01" {
		t.Errorf("unexpected payload: %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"check_in":"June 15"}`), &p); err == nil {
		t.Error("expected error for malformed date")
	}
	if err := json.Unmarshal([]byte(`{"check_in":20240615}`), &p); err == nil {
		t.Error("expected error for numeric date")
	}
}

func TestDate_BSON(t *testing.T) {
	type doc struct {
		Start Date `bson:"start"`
	}

	raw, err := bson.Marshal(doc{Start: NewDate(2024, time.August, 1)})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out doc
	if err := bson.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.Start.String() != "2024-08-01" {
		t.Errorf("round trip = %s", out.Start)
	}

	value := bson.Raw(raw).Lookup("start")
	if _, ok := value.DateTimeOK(); !ok {
		t.Errorf("expected start stored as BSON date, got %s", value.Type)
	}
}

func TestDateRange(t *testing.T) {
	r := NewDateRange(NewDate(2024, time.June, 10), NewDate(2024, time.June, 15))
	if !r.Valid() {
		t.Error("expected range to be valid")
	}
	if r.Nights() != 5 {
		t.Errorf("Nights() = %d, want 5", r.Nights())
	}

	sameDay := NewDateRange(NewDate(2024, time.June, 10), NewDate(2024, time.June, 10))
	if sameDay.Valid() {
		t.Error("empty range should be invalid")
	}

	acrossMonth := NewDateRange(NewDate(2024, time.January, 30), NewDate(2024, time.January, 30).AddDays(3))
	if acrossMonth.End.String() != "2024-02-02" {
		t.Errorf("AddDays() = %s", acrossMonth.End)
	}
}

func TestProperty_AcceptsFrom(t *testing.T) {
	from := NewDate(2024, time.July, 1)
	p := &Property{AvailableFrom: &from}

	if p.AcceptsFrom(NewDate(2024, time.June, 30)) {
		t.Error("stay before available_from should be rejected")
	}
	if !p.AcceptsFrom(from) {
		t.Error("stay starting on available_from should be accepted")
	}
	if !(&Property{}).AcceptsFrom(NewDate(2000, time.January, 1)) {
		t.Error("property without available_from accepts any date")
	}
}

func TestNewSyncAllResult(t *testing.T) {
	res := NewSyncAllResult([]CalendarSyncSummary{
		{CalendarID: "a", Result: SyncResult{Success: true}},
		{CalendarID: "b", Result: FailedSync("Failed to fetch calendar: timeout")},
		{CalendarID: "c", Result: SyncResult{Success: true}},
	})

	if res.Total != 3 || res.Succeeded != 2 || res.Failed != 1 {
		t.Errorf("unexpected totals: %+v", res)
	}
}

package sync

import (
	"context"
	"errors"
	"fmt"
	"staybook/internal/availability"
	calendarserrors "staybook/internal/calendars/errors"
	"staybook/internal/events"
	propertieserrors "staybook/internal/properties/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testPropertyID = "665f1c2e8a1b2c3d4e5f6a7b"
	testCalendarID = "665f1c2e8a1b2c3d4e5f6a01"
)

// ────────────────────────────────────────────────
// In-memory stores
// ────────────────────────────────────────────────

type memoryCalendars struct {
	calendars map[string]*model.ExternalCalendar
	order     []string
}

func newMemoryCalendars(seed ...*model.ExternalCalendar) *memoryCalendars {
	r := &memoryCalendars{calendars: map[string]*model.ExternalCalendar{}}
	for _, c := range seed {
		r.calendars[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r
}

func (r *memoryCalendars) Create(ctx context.Context, c *model.ExternalCalendar) error {
	r.calendars[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *memoryCalendars) FindByID(ctx context.Context, id string) (*model.ExternalCalendar, error) {
	c, ok := r.calendars[id]
	if !ok {
		return nil, calendarserrors.ErrCalendarNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memoryCalendars) FindAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.ExternalCalendar, error) {
	return nil, nil
}

func (r *memoryCalendars) Count(ctx context.Context, propertyID string) (int64, error) {
	return int64(len(r.calendars)), nil
}

func (r *memoryCalendars) ListActive(ctx context.Context) ([]*model.ExternalCalendar, error) {
	var out []*model.ExternalCalendar
	for _, id := range r.order {
		if c := r.calendars[id]; c.IsActive {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryCalendars) Update(ctx context.Context, id string, c *model.ExternalCalendar) error {
	r.calendars[id] = c
	return nil
}

func (r *memoryCalendars) UpdateSyncStatus(ctx context.Context, id string, lastSynced *time.Time, syncErrors *string) error {
	c, ok := r.calendars[id]
	if !ok {
		return calendarserrors.ErrCalendarNotFound
	}
	if lastSynced != nil {
		c.LastSynced = lastSynced
	}
	c.SyncErrors = syncErrors
	return nil
}

func (r *memoryCalendars) Delete(ctx context.Context, id string) error {
	delete(r.calendars, id)
	return nil
}

func (r *memoryCalendars) DeleteByProperty(ctx context.Context, propertyID string) (int64, error) {
	return 0, nil
}

func (r *memoryCalendars) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type memoryBlocks struct {
	blocks   map[string]*model.BlockedDate
	nextID   int
	writes   int
	createFn func(b *model.BlockedDate) error
}

func newMemoryBlocks(seed ...*model.BlockedDate) *memoryBlocks {
	r := &memoryBlocks{blocks: map[string]*model.BlockedDate{}}
	for _, b := range seed {
		r.blocks[b.ID] = b
	}
	return r
}

func (r *memoryBlocks) Create(ctx context.Context, b *model.BlockedDate) error {
	if r.createFn != nil {
		if err := r.createFn(b); err != nil {
			return err
		}
	}
	r.nextID++
	r.writes++
	b.ID = fmt.Sprintf("%024x", r.nextID+2000)
	copied := *b
	r.blocks[b.ID] = &copied
	return nil
}

func (r *memoryBlocks) FindByID(ctx context.Context, id string) (*model.BlockedDate, error) {
	b, ok := r.blocks[id]
	if !ok {
		return nil, calendarserrors.ErrBlockedDateNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memoryBlocks) FindAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.BlockedDate, error) {
	return r.FindByProperty(ctx, propertyID)
}

func (r *memoryBlocks) Count(ctx context.Context, propertyID string) (int64, error) {
	return int64(len(r.blocks)), nil
}

func (r *memoryBlocks) FindOverlapping(ctx context.Context, propertyID string, rng model.DateRange) ([]*model.BlockedDate, error) {
	var out []*model.BlockedDate
	for _, b := range r.blocks {
		if b.PropertyID == propertyID && availability.Overlaps(rng, b.Range()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryBlocks) FindByProperty(ctx context.Context, propertyID string) ([]*model.BlockedDate, error) {
	var out []*model.BlockedDate
	for _, b := range r.blocks {
		if b.PropertyID == propertyID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryBlocks) FindByExternalID(ctx context.Context, propertyID, calendarID, externalID string) (*model.BlockedDate, error) {
	for _, b := range r.blocks {
		if b.PropertyID == propertyID && b.ExternalCalendarID == calendarID && b.ExternalID == externalID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, calendarserrors.ErrBlockedDateNotFound
}

func (r *memoryBlocks) Update(ctx context.Context, id string, b *model.BlockedDate) error {
	if _, ok := r.blocks[id]; !ok {
		return calendarserrors.ErrBlockedDateNotFound
	}
	r.writes++
	copied := *b
	r.blocks[id] = &copied
	return nil
}

func (r *memoryBlocks) Delete(ctx context.Context, id string) error {
	delete(r.blocks, id)
	return nil
}

func (r *memoryBlocks) DeleteEndedBefore(ctx context.Context, date model.Date) (int64, error) {
	var n int64
	for id, b := range r.blocks {
		if b.EndDate.Before(date) {
			delete(r.blocks, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryBlocks) DeleteByProperty(ctx context.Context, propertyID string) (int64, error) {
	return 0, nil
}

func (r *memoryBlocks) DeleteByCalendar(ctx context.Context, calendarID string) (int64, error) {
	return 0, nil
}

func (r *memoryBlocks) byExternalID(externalID string) *model.BlockedDate {
	for _, b := range r.blocks {
		if b.ExternalID == externalID {
			return b
		}
	}
	return nil
}

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
	calls  int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return []byte(f.bodies[url]), nil
}

type mockPropertyReader struct {
	properties map[string]*model.Property
}

func (m *mockPropertyReader) FindByID(ctx context.Context, id string) (*model.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, propertieserrors.ErrNotFound
	}
	return p, nil
}

type recordingPublisher struct {
	events.Noop
	synced []model.SyncResult
}

func (p *recordingPublisher) CalendarSynced(ctx context.Context, c *model.ExternalCalendar, result model.SyncResult) error {
	p.synced = append(p.synced, result)
	return nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

const feedURL = "https://www.airbnb.com/calendar/ical/123.ics"

func feed(events ...string) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//Test//Feed//EN"}
	for _, e := range events {
		lines = append(lines, "BEGIN:VEVENT", e, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func allDay(uid, summary, start, end string) string {
	return fmt.Sprintf("UID:%s\r\nSUMMARY:%s\r\nDTSTART;VALUE=DATE:%s\r\nDTEND;VALUE=DATE:%s", uid, summary, start, end)
}

type fixture struct {
	importer  *Importer
	calendars *memoryCalendars
	blocks    *memoryBlocks
	fetcher   *fakeFetcher
	publisher *recordingPublisher
}

func newCalendar(id, url string) *model.ExternalCalendar {
	return &model.ExternalCalendar{
		ID:         id,
		PropertyID: testPropertyID,
		Source:     config.SourceAirbnb,
		ICalURL:    url,
		IsActive:   true,
	}
}

func newFixture(t *testing.T, calendars []*model.ExternalCalendar, blocks ...*model.BlockedDate) *fixture {
	t.Helper()

	cfg := &config.Config{
		Log:                   logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
		SyncRecurrenceHorizon: 365 * 24 * time.Hour,
	}

	f := &fixture{
		calendars: newMemoryCalendars(calendars...),
		blocks:    newMemoryBlocks(blocks...),
		fetcher:   &fakeFetcher{bodies: map[string]string{}, errs: map[string]error{}},
		publisher: &recordingPublisher{},
	}
	properties := &mockPropertyReader{properties: map[string]*model.Property{
		testPropertyID: {ID: testPropertyID, Title: "Sea View Loft"},
	}}

	f.importer = NewImporter(f.calendars, f.blocks, properties, f.fetcher, f.publisher, cfg)
	f.importer.today = func() model.Date { return model.NewDate(2024, 7, 1) }
	f.importer.now = func() time.Time { return time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC) }
	return f
}

func (f *fixture) sync(t *testing.T, id string) model.SyncResult {
	t.Helper()
	result, err := f.importer.SyncByID(context.Background(), id)
	if err != nil {
		t.Fatalf("SyncByID() error: %v", err)
	}
	return result
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestSyncCalendar_ImportIsIdempotent(t *testing.T) {
	f := newFixture(t, []*model.ExternalCalendar{newCalendar(testCalendarID, feedURL)})
	f.fetcher.bodies[feedURL] = feed(allDay("X", "Reserved", "20240801", "20240805"))

	first := f.sync(t, testCalendarID)
	if !first.Success || first.Created != 1 || first.Updated != 0 || first.TotalEvents != 1 {
		t.Fatalf("first run = %+v, want success with 1 created", first)
	}

	block := f.blocks.byExternalID("X")
	if block == nil {
		t.Fatal("expected a blocked date for UID X")
	}
	if block.StartDate.String() != "2024-08-01" || block.EndDate.String() != "2024-08-05" {
		t.Errorf("block range = %s, want 2024-08-01 -> 2024-08-05", block.Range())
	}
	if block.ExternalCalendarID != testCalendarID || block.PropertyID != testPropertyID || block.Notes != "Reserved" {
		t.Errorf("unexpected block ownership: %+v", block)
	}

	writes := f.blocks.writes
	second := f.sync(t, testCalendarID)
	if !second.Success || second.Created != 0 || second.Updated != 0 {
		t.Errorf("second run = %+v, want 0 created and 0 updated", second)
	}
	if f.blocks.writes != writes {
		t.Errorf("second run wrote %d times, want none", f.blocks.writes-writes)
	}
	if len(f.blocks.blocks) != 1 {
		t.Errorf("expected 1 stored block, got %d", len(f.blocks.blocks))
	}
}

func TestSyncCalendar_RecurrenceOverridesAreIdempotent(t *testing.T) {
	f := newFixture(t, []*model.ExternalCalendar{newCalendar(testCalendarID, feedURL)})
	f.fetcher.bodies[feedURL] = feed(
		allDay("weekly", "Owner stay", "20240805", "20240807")+"\r\nRRULE:FREQ=WEEKLY;COUNT=4",
		allDay("weekly", "Owner stay (moved)", "20240813", "20240816")+"\r\nRECURRENCE-ID;VALUE=DATE:20240812",
		allDay("weekly", "Owner stay (moved)", "20240820", "20240822")+"\r\nRECURRENCE-ID;VALUE=DATE:20240819",
	)

	first := f.sync(t, testCalendarID)
	if !first.Success || first.Created != 4 || first.Updated != 0 {
		t.Fatalf("first run = %+v, want success with 4 created", first)
	}

	writes := f.blocks.writes
	second := f.sync(t, testCalendarID)
	if !second.Success || second.Created != 0 || second.Updated != 0 {
		t.Errorf("second run = %+v, want 0 created and 0 updated", second)
	}
	if f.blocks.writes != writes {
		t.Errorf("second run wrote %d times, want none", f.blocks.writes-writes)
	}

	if f.blocks.byExternalID("weekly") != nil {
		t.Error("override stored under the bare UID")
	}
	if len(f.blocks.blocks) != 4 {
		t.Errorf("expected 4 stored blocks, got %d", len(f.blocks.blocks))
	}

	want := map[string]string{
		"weekly#20240805": "2024-08-05 -> 2024-08-07",
		"weekly#20240812": "2024-08-13 -> 2024-08-16",
		"weekly#20240819": "2024-08-20 -> 2024-08-22",
		"weekly#20240826": "2024-08-26 -> 2024-08-28",
	}
	for uid, rng := range want {
		block := f.blocks.byExternalID(uid)
		if block == nil {
			t.Errorf("missing block for %s", uid)
			continue
		}
		if got := block.StartDate.String() + " -> " + block.EndDate.String(); got != rng {
			t.Errorf("%s range = %s, want %s", uid, got, rng)
		}
	}
	for _, b := range f.blocks.blocks {
		if b.StartDate.String() == "2024-08-12" || b.StartDate.String() == "2024-08-19" {
			t.Errorf("stale block on a replaced instance date: %+v", b)
		}
	}
}

func TestSyncCalendar_RenamedEventKeepsNotes(t *testing.T) {
	f := newFixture(t, []*model.ExternalCalendar{newCalendar(testCalendarID, feedURL)})
	f.fetcher.bodies[feedURL] = feed(allDay("X", "Reserved", "20240801", "20240805"))
	f.sync(t, testCalendarID)

	f.fetcher.bodies[feedURL] = feed(allDay("X", "Reserved - renamed", "20240801", "20240805"))
	writes := f.blocks.writes
	result := f.sync(t, testCalendarID)

	if result.Created != 0 || result.Updated != 0 {
		t.Errorf("result = %+v, want 0 created and 0 updated", result)
	}
	if f.blocks.writes != writes {
		t.Errorf("rename wrote %d times, want none", f.blocks.writes-writes)
	}
	if notes := f.blocks.byExternalID("X").Notes; notes != "Reserved" {
		t.Errorf("Notes = %q, want the original summary", notes)
	}
}

func TestSyncCalendar_ChangedRangeUpdatesExistingBlock(t *testing.T) {
	f := newFixture(t, []*model.ExternalCalendar{newCalendar(testCalendarID, feedURL)})
	f.fetcher.bodies[feedURL] = feed(allDay("X", "Reserved", "20240801", "20240805"))
	f.sync(t, testCalendarID)
	id := f.blocks.byExternalID("X").ID

	f.fetcher.bodies[feedURL] = feed(allDay("X", "Reserved - extended", "20240802", "20240809"))
	result := f.sync(t, testCalendarID)

	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("result = %+v, want 0 created and 1 updated", result)
	}
	block := f.blocks.blocks[id]
	if block.StartDate.String() != "2024-08-02" || block.EndDate.String() != "2024-08-09" {
		t.Errorf("block range = %s, want 2024-08-02 -> 2024-08-09", block.Range())
	}
	if block.Notes != "Reserved - extended" {
		t.Errorf("Notes = %q, want updated summary", block.Notes)
	}
}

func TestSyncCalendar_SkipsPastEvents(t *testing.T) {
	f := newFixture(t, []*model.ExternalCalendar{newCalendar(testCalendarID, feedURL)})
	f.fetcher.bodies[feedURL] = feed(
		allDay("past", "Old stay", "20240610", "20240615"),
		allDay("ends-today", "Checkout today", "20240628", "20240701"),
	)

	result := f.sync(t, testCalendarID)

	if result.TotalEvents != 2 {
		t.Errorf("TotalEvents = %d, want 2", result.TotalEvents)
	}
	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
	if f.blocks.byExternalID("past") != nil {
		t.Error("event that ended before today must not be stored")
	}
	if f.blocks.byExternalID("ends-today") == nil {
		t.Error("event ending today should be stored")
	}
}

func TestSyncCalendar_RecordsSyncStatus(t *testing.T) {
	previousError := "Failed to fetch calendar: timeout"
	cal := newCalendar(testCalendarID, feedURL)
	cal.SyncErrors = &previousError
	f := newFixture(t, []*model.ExternalCalendar{cal})
	f.fetcher.bodies[feedURL] = feed(allDay("X", "Reserved", "20240801", "20240805"))

	f.sync(t, testCalendarID)

	stored := f.calendars.calendars[testCalendarID]
	if stored.LastSynced == nil || !stored.LastSynced.Equal(time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("LastSynced = %v, want the sync time", stored.LastSynced)
	}
	if stored.SyncErrors != nil {
		t.Errorf("SyncErrors = %q, want cleared", *stored.SyncErrors)
	}
	if len(f.publisher.synced) != 1 || !f.publisher.synced[0].Success {
		t.Errorf("published = %+v, want one successful sync event", f.publisher.synced)
	}
}

func TestSyncCalendar_FeedFailuresLeaveBlocksUntouched(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fetchErr   error
		wantPrefix string
	}{
		{
			name:       "fetch timeout",
			fetchErr:   errors.New("context deadline exceeded"),
			wantPrefix: "Failed to fetch calendar: ",
		},
		{
			name:       "empty feed",
			body:       "   ",
			wantPrefix: "Failed to parse calendar: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synced := time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
			cal := newCalendar(testCalendarID, feedURL)
			cal.LastSynced = &synced
			existing := &model.BlockedDate{
				ID:                 "665f1c2e8a1b2c3d4e5f6b01",
				PropertyID:         testPropertyID,
				ExternalCalendarID: testCalendarID,
				ExternalID:         "X",
				StartDate:          model.NewDate(2024, 8, 1),
				EndDate:            model.NewDate(2024, 8, 5),
			}
			f := newFixture(t, []*model.ExternalCalendar{cal}, existing)
			f.fetcher.bodies[feedURL] = tt.body
			if tt.fetchErr != nil {
				f.fetcher.errs[feedURL] = tt.fetchErr
			}

			result := f.sync(t, testCalendarID)

			if result.Success {
				t.Fatal("expected an unsuccessful result")
			}
			if !strings.HasPrefix(result.Error, tt.wantPrefix) {
				t.Errorf("Error = %q, want prefix %q", result.Error, tt.wantPrefix)
			}
			if f.blocks.writes != 0 || len(f.blocks.blocks) != 1 {
				t.Errorf("blocked dates were modified: writes=%d stored=%d", f.blocks.writes, len(f.blocks.blocks))
			}

			stored := f.calendars.calendars[testCalendarID]
			if stored.SyncErrors == nil || !strings.HasPrefix(*stored.SyncErrors, tt.wantPrefix) {
				t.Errorf("SyncErrors = %v, want recorded failure", stored.SyncErrors)
			}
			if stored.LastSynced == nil || !stored.LastSynced.Equal(synced) {
				t.Errorf("LastSynced = %v, want previous value kept", stored.LastSynced)
			}
		})
	}
}

func TestSyncCalendar_EventErrorsDoNotStopImport(t *testing.T) {
	f := newFixture(t, []*model.ExternalCalendar{newCalendar(testCalendarID, feedURL)})
	f.fetcher.bodies[feedURL] = feed(
		"SUMMARY:no uid\r\nDTSTART;VALUE=DATE:20240901\r\nDTEND;VALUE=DATE:20240903",
		"UID:no-end\r\nDTSTART;VALUE=DATE:20240901",
		allDay("broken", "Store fails", "20240805", "20240807"),
		allDay("good", "Reserved", "20240810", "20240812"),
	)
	f.blocks.createFn = func(b *model.BlockedDate) error {
		if b.ExternalID == "broken" {
			return errors.New("write conflict")
		}
		return nil
	}

	result := f.sync(t, testCalendarID)

	if !result.Success {
		t.Fatalf("per-event errors must not fail the import: %+v", result)
	}
	if result.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d, want 4", result.TotalEvents)
	}
	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2 (missing uid, store failure)", result.Errors)
	}
	for _, msg := range result.Errors {
		if !strings.HasPrefix(msg, "Error processing event: ") {
			t.Errorf("error %q lacks the event prefix", msg)
		}
	}
	if f.blocks.byExternalID("good") == nil {
		t.Error("event after the failures should still be imported")
	}
}

func TestSyncByID_Errors(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.importer.SyncByID(context.Background(), testCalendarID)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("SyncByID(unknown) error = %v, want not found", err)
	}

	_, err = f.importer.SyncByID(context.Background(), "")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("SyncByID(\"\") error = %v, want invalid input", err)
	}
	if f.fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", f.fetcher.calls)
	}
}

func TestSyncAll_ContinuesPastFailures(t *testing.T) {
	const brokenURL = "https://calendar.booking.com/broken.ics"
	const otherID = "665f1c2e8a1b2c3d4e5f6a02"
	const inactiveID = "665f1c2e8a1b2c3d4e5f6a03"

	broken := newCalendar(testCalendarID, brokenURL)
	broken.Source = config.SourceBookingCom
	good := newCalendar(otherID, feedURL)
	inactive := newCalendar(inactiveID, "https://example.com/off.ics")
	inactive.Source = config.SourceOther
	inactive.IsActive = false

	f := newFixture(t, []*model.ExternalCalendar{broken, good, inactive})
	f.fetcher.errs[brokenURL] = errors.New("unexpected status code 503")
	f.fetcher.bodies[feedURL] = feed(allDay("X", "Reserved", "20240801", "20240805"))

	summaries, err := f.importer.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries (inactive skipped), got %d", len(summaries))
	}

	if summaries[0].Result.Success || summaries[0].CalendarID != testCalendarID {
		t.Errorf("first summary = %+v, want failed broken calendar", summaries[0])
	}
	if !summaries[1].Result.Success || summaries[1].Result.Created != 1 {
		t.Errorf("second summary = %+v, want successful import", summaries[1])
	}
	if summaries[1].Property != "Sea View Loft" || summaries[1].Source != "Airbnb" {
		t.Errorf("summary labels = %q / %q", summaries[1].Property, summaries[1].Source)
	}

	all := model.NewSyncAllResult(summaries)
	if all.Total != 2 || all.Succeeded != 1 || all.Failed != 1 {
		t.Errorf("NewSyncAllResult() = %+v", all)
	}
}

func TestCleanup(t *testing.T) {
	f := newFixture(t, nil,
		&model.BlockedDate{ID: "a", PropertyID: testPropertyID, StartDate: model.NewDate(2024, 5, 1), EndDate: model.NewDate(2024, 5, 5)},
		&model.BlockedDate{ID: "b", PropertyID: testPropertyID, StartDate: model.NewDate(2024, 5, 28), EndDate: model.NewDate(2024, 6, 1)},
		&model.BlockedDate{ID: "c", PropertyID: testPropertyID, StartDate: model.NewDate(2024, 7, 10), EndDate: model.NewDate(2024, 7, 12)},
	)

	deleted, err := f.importer.Cleanup(context.Background(), 30)
	if err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, ok := f.blocks.blocks["a"]; ok {
		t.Error("block ending 2024-05-05 should be removed with a 2024-06-01 cutoff")
	}
	if _, ok := f.blocks.blocks["b"]; !ok {
		t.Error("block ending on the cutoff should be kept")
	}

	if _, err := f.importer.Cleanup(context.Background(), -1); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("Cleanup(-1) error = %v, want invalid input", err)
	}
}

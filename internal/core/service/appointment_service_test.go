package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

// ---------------------------------------------------------------------------
// IsAvailable
// ---------------------------------------------------------------------------

func TestIsAvailable_EmptySchedule(t *testing.T) {
	f := newFixture()

	ok, err := f.svc.IsAvailable(context.Background(), domain.Slot{StartAt: at(10, 0), EndAt: at(11, 0)}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected empty schedule to be available")
	}
}

func TestIsAvailable_Overlaps(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	cases := []struct {
		name      string
		start     time.Time
		end       time.Time
		available bool
	}{
		{"inside", at(10, 15), at(10, 45), false},
		{"covering", at(9, 0), at(12, 0), false},
		{"overlaps start", at(9, 30), at(10, 30), false},
		{"overlaps end", at(10, 30), at(11, 30), false},
		{"touches end boundary", at(11, 0), at(12, 0), false},
		{"touches start boundary", at(9, 0), at(10, 0), false},
		{"strictly before", at(8, 0), at(9, 59), true},
		{"strictly after", at(11, 1), at(12, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.svc.IsAvailable(context.Background(), domain.Slot{StartAt: tc.start, EndAt: tc.end}, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.available {
				t.Errorf("expected available=%v, got %v", tc.available, ok)
			}
		})
	}
}

func TestIsAvailable_ScopeIsGlobal(t *testing.T) {
	f := newFixture()
	f.seed("a1", bobCaller.UserID, at(10, 0), at(11, 0))

	_, err := f.svc.CreateAppointment(context.Background(), aliceCaller, aliceCaller.UserID, input(aliceCaller.UserID, at(10, 30), at(11, 30)))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable across users, got %v", err)
	}
}

func TestIsAvailable_ExcludesOwnRecord(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	ok, err := f.svc.IsAvailable(context.Background(), domain.Slot{StartAt: at(10, 0), EndAt: at(11, 0)}, "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected the slot to be free once its own appointment is excluded")
	}
}

func TestIsAvailable_StorageFailure(t *testing.T) {
	f := newFixture()
	f.appointments.overlapErr = errStorage

	_, err := f.svc.IsAvailable(context.Background(), domain.Slot{StartAt: at(10, 0), EndAt: at(11, 0)}, "")
	if domain.KindOf(err) != domain.KindOperational {
		t.Fatalf("expected operational error, got %v", err)
	}
	if domain.MessageOf(err) != "Error while checking for availability" {
		t.Errorf("unexpected message: %q", domain.MessageOf(err))
	}
	if !errors.Is(err, errStorage) {
		t.Error("expected the storage cause to be kept")
	}
}

// ---------------------------------------------------------------------------
// CreateAppointment
// ---------------------------------------------------------------------------

func TestCreateAppointment_Success(t *testing.T) {
	f := newFixture()

	a, err := f.svc.CreateAppointment(context.Background(), aliceCaller, aliceCaller.UserID, input(aliceCaller.UserID, at(10, 0), at(11, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected generated id")
	}
	if f.appointments.count() != 1 {
		t.Fatalf("expected 1 stored appointment, got %d", f.appointments.count())
	}
	if len(f.audit.events) != 1 || f.audit.events[0].Action != domain.AuditCreated {
		t.Fatalf("expected one created audit event, got %+v", f.audit.events)
	}
	if f.audit.events[0].AppointmentID != a.ID {
		t.Errorf("audit event points at %q, want %q", f.audit.events[0].AppointmentID, a.ID)
	}
}

func TestCreateAppointment_UserIDMismatch(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAppointment(context.Background(), adminCaller, bobCaller.UserID, input(aliceCaller.UserID, at(10, 0), at(11, 0)))
	if !errors.Is(err, domain.ErrUserIDMismatch) {
		t.Fatalf("expected ErrUserIDMismatch, got %v", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Errorf("expected conflict kind, got %s", domain.KindOf(err))
	}
	if f.appointments.creates != 0 {
		t.Error("no write expected on id mismatch")
	}
}

func TestCreateAppointment_UnknownUser(t *testing.T) {
	f := newFixture()
	ghost := "ffffffffffffffffffffffff"

	_, err := f.svc.CreateAppointment(context.Background(), adminCaller, ghost, input(ghost, at(10, 0), at(11, 0)))
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if f.appointments.creates != 0 {
		t.Error("no write expected for unknown user")
	}
}

func TestCreateAppointment_SlotTaken(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	_, err := f.svc.CreateAppointment(context.Background(), aliceCaller, aliceCaller.UserID, input(aliceCaller.UserID, at(11, 0), at(12, 0)))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if domain.MessageOf(err) != "The slot you selected is not available, please select another time" {
		t.Errorf("unexpected message: %q", domain.MessageOf(err))
	}
	if f.appointments.creates != 0 {
		t.Error("no write expected when the slot is taken")
	}
	if len(f.audit.events) != 0 {
		t.Error("no audit event expected on failure")
	}
}

func TestCreateAppointment_UserBookingForSomeoneElse(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAppointment(context.Background(), aliceCaller, bobCaller.UserID, input(bobCaller.UserID, at(10, 0), at(11, 0)))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateAppointment_AdminBooksForAnyone(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.CreateAppointment(context.Background(), adminCaller, bobCaller.UserID, input(bobCaller.UserID, at(10, 0), at(11, 0))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateAppointment_EndBeforeStart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAppointment(context.Background(), aliceCaller, aliceCaller.UserID, input(aliceCaller.UserID, at(11, 0), at(10, 0)))
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAppointment_StorageFailure(t *testing.T) {
	f := newFixture()
	f.appointments.createErr = errStorage

	_, err := f.svc.CreateAppointment(context.Background(), aliceCaller, aliceCaller.UserID, input(aliceCaller.UserID, at(10, 0), at(11, 0)))
	if domain.KindOf(err) != domain.KindOperational {
		t.Fatalf("expected operational error, got %v", err)
	}
	if domain.MessageOf(err) != "Error while creating new appointment" {
		t.Errorf("unexpected message: %q", domain.MessageOf(err))
	}
}

func TestCreateAppointment_ConcurrentSameSlot(t *testing.T) {
	f := newFixture()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateAppointment(context.Background(), adminCaller, aliceCaller.UserID, input(aliceCaller.UserID, at(10, 0), at(11, 0)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", attempts-1, succeeded, conflicts)
	}
	if f.appointments.count() != 1 {
		t.Fatalf("expected 1 stored appointment, got %d", f.appointments.count())
	}
}

// ---------------------------------------------------------------------------
// UpdateAppointment
// ---------------------------------------------------------------------------

func TestUpdateAppointment_SameSlotDoesNotSelfConflict(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	in := input(aliceCaller.UserID, at(10, 0), at(11, 0))
	in.ID = "a1"
	in.Notes = "bring results"

	a, err := f.svc.UpdateAppointment(context.Background(), aliceCaller, "a1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Notes != "bring results" {
		t.Errorf("expected notes to be replaced, got %q", a.Notes)
	}
	if want := baseTime.Add(-time.Hour); !a.UpdatedAt.Equal(want) {
		t.Errorf("expected updatedAt %s, got %s", want, a.UpdatedAt)
	}
	if len(f.audit.events) != 1 || f.audit.events[0].Action != domain.AuditUpdated {
		t.Errorf("expected one updated audit event, got %+v", f.audit.events)
	}
}

func TestUpdateAppointment_IDMismatch(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	in := input(aliceCaller.UserID, at(12, 0), at(13, 0))
	in.ID = "a2"

	_, err := f.svc.UpdateAppointment(context.Background(), aliceCaller, "a1", in)
	if !errors.Is(err, domain.ErrAppointmentIDMismatch) {
		t.Fatalf("expected ErrAppointmentIDMismatch, got %v", err)
	}
	if f.appointments.updates != 0 {
		t.Error("no write expected on id mismatch")
	}
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateAppointment(context.Background(), aliceCaller, "missing", input(aliceCaller.UserID, at(10, 0), at(11, 0)))
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestUpdateAppointment_UnknownUser(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	_, err := f.svc.UpdateAppointment(context.Background(), adminCaller, "a1", input("ffffffffffffffffffffffff", at(10, 0), at(11, 0)))
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateAppointment_ConflictsWithOther(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))
	f.seed("a2", aliceCaller.UserID, at(12, 0), at(13, 0))

	_, err := f.svc.UpdateAppointment(context.Background(), aliceCaller, "a2", input(aliceCaller.UserID, at(10, 30), at(12, 30)))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if f.appointments.updates != 0 {
		t.Error("no write expected on conflict")
	}
}

func TestUpdateAppointment_OtherUsersAppointmentIsHidden(t *testing.T) {
	f := newFixture()
	f.seed("a1", bobCaller.UserID, at(10, 0), at(11, 0))

	_, err := f.svc.UpdateAppointment(context.Background(), aliceCaller, "a1", input(aliceCaller.UserID, at(10, 0), at(11, 0)))
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestUpdateAppointment_UserCannotReassign(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	_, err := f.svc.UpdateAppointment(context.Background(), aliceCaller, "a1", input(bobCaller.UserID, at(10, 0), at(11, 0)))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeleteAppointment
// ---------------------------------------------------------------------------

func TestDeleteAppointment_Success(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	if err := f.svc.DeleteAppointment(context.Background(), aliceCaller, "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.appointments.count() != 0 {
		t.Fatal("expected appointment to be removed")
	}
	if len(f.audit.events) != 1 || f.audit.events[0].Action != domain.AuditDeleted {
		t.Errorf("expected one deleted audit event, got %+v", f.audit.events)
	}
}

func TestDeleteAppointment_RestoresListing(t *testing.T) {
	f := newFixture()
	seedDay(f)
	ctx := context.Background()

	pages := []ports.ListAppointmentsInput{{}, {Page: 1, Limit: 2}, {Page: 2, Limit: 2}}
	snapshot := func() []*ports.ListAppointmentsResult {
		out := make([]*ports.ListAppointmentsResult, len(pages))
		for i, p := range pages {
			res, err := f.svc.ListAppointments(ctx, aliceCaller, p)
			if err != nil {
				t.Fatalf("list %+v: %v", p, err)
			}
			out[i] = res
		}
		return out
	}

	before := snapshot()

	created, err := f.svc.CreateAppointment(ctx, aliceCaller, aliceCaller.UserID, input(aliceCaller.UserID, at(9, 30), at(9, 45)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	during := snapshot()
	if !equalIDs(during[0].Data, append([]string{created.ID}, ids(before[0].Data)...)...) {
		t.Fatalf("created appointment missing from listing: %v", ids(during[0].Data))
	}

	if err := f.svc.DeleteAppointment(ctx, aliceCaller, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after := snapshot()

	for i := range pages {
		if !equalIDs(after[i].Data, ids(before[i].Data)...) || after[i].HasMore != before[i].HasMore {
			t.Errorf("page %+v: before %v hasMore=%v, after %v hasMore=%v",
				pages[i], ids(before[i].Data), before[i].HasMore, ids(after[i].Data), after[i].HasMore)
		}
	}
}

func TestDeleteAppointment_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.DeleteAppointment(context.Background(), adminCaller, "missing")
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
	if domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("expected not_found kind, got %s", domain.KindOf(err))
	}
}

func TestDeleteAppointment_OtherUsersAppointment(t *testing.T) {
	f := newFixture()
	f.seed("a1", bobCaller.UserID, at(10, 0), at(11, 0))

	err := f.svc.DeleteAppointment(context.Background(), aliceCaller, "a1")
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
	if f.appointments.count() != 1 {
		t.Fatal("appointment must survive a rejected delete")
	}
}

// ---------------------------------------------------------------------------
// ListAppointments
// ---------------------------------------------------------------------------

func seedDay(f *fixture) {
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(10, 30))
	f.seed("a2", bobCaller.UserID, at(11, 0), at(11, 30))
	f.seed("a3", aliceCaller.UserID, at(12, 0), at(12, 30))
	f.seed("a4", bobCaller.UserID, at(13, 0), at(13, 30))
	f.seed("a5", aliceCaller.UserID, at(14, 0), at(14, 30))
	// Already started relative to the frozen clock.
	f.seed("past", aliceCaller.UserID, baseTime.Add(-2*time.Hour), baseTime.Add(-90*time.Minute))
}

func ids(items []*domain.Appointment) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}

func equalIDs(got []*domain.Appointment, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestListAppointments_AdminSeesAllUpcoming(t *testing.T) {
	f := newFixture()
	seedDay(f)

	res, err := f.svc.ListAppointments(context.Background(), adminCaller, ports.ListAppointmentsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(res.Data, "a1", "a2", "a3", "a4", "a5") {
		t.Fatalf("unexpected ids: %v", ids(res.Data))
	}
	if res.HasMore {
		t.Error("hasMore must be false without a limit")
	}
	if res.Data[0].User == nil || res.Data[0].User.Name != "Alice" {
		t.Errorf("expected owner summary on items, got %+v", res.Data[0].User)
	}
}

func TestListAppointments_UserSeesOnlyOwn(t *testing.T) {
	f := newFixture()
	seedDay(f)

	res, err := f.svc.ListAppointments(context.Background(), bobCaller, ports.ListAppointmentsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(res.Data, "a2", "a4") {
		t.Fatalf("unexpected ids: %v", ids(res.Data))
	}
	if f.appointments.lastFilter.UserID != bobCaller.UserID {
		t.Errorf("expected filter scoped to caller, got %q", f.appointments.lastFilter.UserID)
	}
}

func TestListAppointments_UnknownRoleIsScoped(t *testing.T) {
	f := newFixture()
	seedDay(f)

	caller := domain.Caller{UserID: aliceCaller.UserID, Role: domain.ParseRole("superuser")}
	res, err := f.svc.ListAppointments(context.Background(), caller, ports.ListAppointmentsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(res.Data, "a1", "a3", "a5") {
		t.Fatalf("unexpected ids: %v", ids(res.Data))
	}
}

func TestListAppointments_Pagination(t *testing.T) {
	f := newFixture()
	seedDay(f)

	cases := []struct {
		page, limit int
		want        []string
		hasMore     bool
	}{
		{1, 2, []string{"a1", "a2"}, true},
		{2, 2, []string{"a3", "a4"}, true},
		{3, 2, []string{"a5"}, false},
		{4, 2, []string{}, false},
		{1, 5, []string{"a1", "a2", "a3", "a4", "a5"}, false},
		{0, 3, []string{"a1", "a2", "a3"}, true},
	}

	for _, tc := range cases {
		res, err := f.svc.ListAppointments(context.Background(), adminCaller, ports.ListAppointmentsInput{Page: tc.page, Limit: tc.limit})
		if err != nil {
			t.Fatalf("page=%d limit=%d: unexpected error: %v", tc.page, tc.limit, err)
		}
		if !equalIDs(res.Data, tc.want...) {
			t.Errorf("page=%d limit=%d: got %v, want %v", tc.page, tc.limit, ids(res.Data), tc.want)
		}
		if res.HasMore != tc.hasMore {
			t.Errorf("page=%d limit=%d: hasMore=%v, want %v", tc.page, tc.limit, res.HasMore, tc.hasMore)
		}
	}
}

func TestListAppointments_HasMoreCountsOnlyCallersRows(t *testing.T) {
	f := newFixture()
	seedDay(f)

	res, err := f.svc.ListAppointments(context.Background(), bobCaller, ports.ListAppointmentsInput{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasMore {
		t.Error("bob has exactly two upcoming appointments, hasMore must be false")
	}
}

func TestListAppointments_UnboundedSecondPageIsEmpty(t *testing.T) {
	f := newFixture()
	seedDay(f)

	res, err := f.svc.ListAppointments(context.Background(), adminCaller, ports.ListAppointmentsInput{Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 0 || res.HasMore {
		t.Fatalf("expected empty page, got %v hasMore=%v", ids(res.Data), res.HasMore)
	}
}

func TestListAppointments_TieBreakByID(t *testing.T) {
	f := newFixture()
	f.seed("b2", aliceCaller.UserID, at(10, 0), at(10, 30))
	f.seed("b1", bobCaller.UserID, at(10, 0), at(10, 30))

	res, err := f.svc.ListAppointments(context.Background(), adminCaller, ports.ListAppointmentsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(res.Data, "b1", "b2") {
		t.Fatalf("unexpected order: %v", ids(res.Data))
	}
}

func TestListAppointments_MissingIdentity(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ListAppointments(context.Background(), domain.Caller{Role: domain.RoleUser}, ports.ListAppointmentsInput{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListAppointments_StorageFailure(t *testing.T) {
	f := newFixture()
	f.appointments.listErr = errStorage

	_, err := f.svc.ListAppointments(context.Background(), adminCaller, ports.ListAppointmentsInput{})
	if domain.KindOf(err) != domain.KindOperational {
		t.Fatalf("expected operational error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListForCalendar / GetAppointment
// ---------------------------------------------------------------------------

func TestListForCalendar_InclusiveRange(t *testing.T) {
	f := newFixture()
	seedDay(f)

	items, err := f.svc.ListForCalendar(context.Background(), at(11, 0), at(13, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(items, "a2", "a3", "a4") {
		t.Fatalf("unexpected ids: %v", ids(items))
	}
}

func TestListForCalendar_IncludesPast(t *testing.T) {
	f := newFixture()
	seedDay(f)

	items, err := f.svc.ListForCalendar(context.Background(), baseTime.Add(-3*time.Hour), at(10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(items, "past", "a1") {
		t.Fatalf("unexpected ids: %v", ids(items))
	}
}

func TestListForCalendar_EmptyRange(t *testing.T) {
	f := newFixture()

	items, err := f.svc.ListForCalendar(context.Background(), at(10, 0), at(11, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", items)
	}
}

func TestListForCalendar_InvertedRange(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ListForCalendar(context.Background(), at(12, 0), at(10, 0))
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestGetAppointment_Visibility(t *testing.T) {
	f := newFixture()
	f.seed("a1", aliceCaller.UserID, at(10, 0), at(11, 0))

	if _, err := f.svc.GetAppointment(context.Background(), aliceCaller, "a1"); err != nil {
		t.Fatalf("owner: unexpected error: %v", err)
	}
	if _, err := f.svc.GetAppointment(context.Background(), adminCaller, "a1"); err != nil {
		t.Fatalf("admin: unexpected error: %v", err)
	}
	if _, err := f.svc.GetAppointment(context.Background(), bobCaller, "a1"); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("other user: expected ErrAppointmentNotFound, got %v", err)
	}
}

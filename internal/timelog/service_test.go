package timelog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/manulaWithanage/jobpromax-manager-sub001/internal/model"
)

// --- モック ---

type mockTimeLogRepo struct {
	findByIDFn              func(ctx context.Context, id string) (*model.TimeLog, error)
	findByIdempotencyKeyFn  func(ctx context.Context, userID, key string) (*model.TimeLog, error)
	createFn                func(ctx context.Context, entry *model.TimeLog) error
	listFn                  func(ctx context.Context, filter model.TimeLogFilter) ([]*model.TimeLog, error)
	updateStatusIfPendingFn func(ctx context.Context, id string, status model.TimeLogStatus, approverID string, comment *string, updatedAt time.Time) (bool, error)
	deleteByIDFn            func(ctx context.Context, id string) (bool, error)
}

func (m *mockTimeLogRepo) FindByID(ctx context.Context, id string) (*model.TimeLog, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockTimeLogRepo) FindByIdempotencyKey(ctx context.Context, userID, key string) (*model.TimeLog, error) {
	if m.findByIdempotencyKeyFn != nil {
		return m.findByIdempotencyKeyFn(ctx, userID, key)
	}
	return nil, nil
}
func (m *mockTimeLogRepo) Create(ctx context.Context, entry *model.TimeLog) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}
func (m *mockTimeLogRepo) List(ctx context.Context, filter model.TimeLogFilter) ([]*model.TimeLog, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}
func (m *mockTimeLogRepo) UpdateStatusIfPending(ctx context.Context, id string, status model.TimeLogStatus, approverID string, comment *string, updatedAt time.Time) (bool, error) {
	if m.updateStatusIfPendingFn != nil {
		return m.updateStatusIfPendingFn(ctx, id, status, approverID, comment, updatedAt)
	}
	return false, nil
}
func (m *mockTimeLogRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return false, nil
}
func (m *mockTimeLogRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*model.TimeLog, error) {
	return nil, nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.User{ID: id, Name: "Dev A", Role: model.RoleDeveloper}, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return nil
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type stubSanitizer struct{}

func (stubSanitizer) Sanitize(raw string) string { return strings.TrimSpace(raw) }

type mockRecorder struct {
	recordFn func(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error)
	calls    []string
}

func (m *mockRecorder) Record(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error) {
	m.calls = append(m.calls, action)
	if m.recordFn != nil {
		return m.recordFn(ctx, actor, action, target, details)
	}
	return &model.ActivityLog{Action: action}, nil
}

func validInput() CreateInput {
	return CreateInput{
		UserID:   "user-1",
		Date:     "2026-08-14",
		Hours:    7.5,
		Summary:  "JPM-55のバグ修正",
		Tickets:  []string{"JPM-55"},
		WorkType: "bug",
	}
}

// --- CreateEntry ---

func TestCreateEntry_Success(t *testing.T) {
	var created *model.TimeLog
	repo := &mockTimeLogRepo{
		createFn: func(ctx context.Context, entry *model.TimeLog) error {
			created = entry
			return nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, &mockRecorder{}, nil)

	entry, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), validInput())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if entry.Status != model.TimeLogStatusPending {
		t.Errorf("status = %s, want pending", entry.Status)
	}
	if created == nil {
		t.Fatal("entry was not persisted")
	}
	if created.ID == "" {
		t.Error("ID should be generated")
	}
	if got := created.Date.Format("2006-01-02"); got != "2026-08-14" {
		t.Errorf("date = %s, want 2026-08-14", got)
	}
	if len(created.Tickets) != 1 || created.Tickets[0] != "JPM-55" {
		t.Errorf("tickets = %v, want [JPM-55]", created.Tickets)
	}
}

func TestCreateEntry_InvalidHours(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	for _, hours := range []float64{0, -1, 24.5} {
		input := validInput()
		input.Hours = hours
		_, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), input)

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
			t.Errorf("hours=%v: error = %v, want validation error", hours, err)
		}
	}
}

func TestCreateEntry_BoundaryHours(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	input := validInput()
	input.Hours = 24
	if _, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), input); err != nil {
		t.Errorf("hours=24 should be accepted, got %v", err)
	}
}

func TestCreateEntry_EmptySummary(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	input := validInput()
	input.Summary = "   "
	_, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreateEntry_InvalidDate(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	input := validInput()
	input.Date = "14/08/2026"
	_, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreateEntry_InvalidWorkType(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	input := validInput()
	input.WorkType = "vacation"
	_, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreateEntry_ScopeRejectsOtherUser(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	input := validInput()
	input.UserID = "user-2"
	_, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAuthorization {
		t.Errorf("error = %v, want authorization error", err)
	}
}

func TestCreateEntry_IdempotencyKeyReturnsExisting(t *testing.T) {
	existing := &model.TimeLog{ID: "entry-1", UserID: "user-1", Status: model.TimeLogStatusPending}
	createCalled := false
	repo := &mockTimeLogRepo{
		findByIdempotencyKeyFn: func(ctx context.Context, userID, key string) (*model.TimeLog, error) {
			if userID == "user-1" && key == "retry-abc" {
				return existing, nil
			}
			return nil, nil
		},
		createFn: func(ctx context.Context, entry *model.TimeLog) error {
			createCalled = true
			return nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	input := validInput()
	input.IdempotencyKey = "retry-abc"
	entry, err := svc.CreateEntry(context.Background(), model.ScopeSelf("user-1"), input)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if entry.ID != "entry-1" {
		t.Errorf("entry.ID = %s, want entry-1 (existing entry)", entry.ID)
	}
	if createCalled {
		t.Error("Create should not be called when idempotency key matches")
	}
}

// --- ListEntries ---

func TestListEntries_SelfScopeForcesOwnUserID(t *testing.T) {
	var gotFilter model.TimeLogFilter
	repo := &mockTimeLogRepo{
		listFn: func(ctx context.Context, filter model.TimeLogFilter) ([]*model.TimeLog, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	// 他人のIDを指定しても無視される
	_, err := svc.ListEntries(context.Background(), model.ScopeSelf("user-1"), model.TimeLogFilter{UserID: "user-2"})
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if gotFilter.UserID != "user-1" {
		t.Errorf("filter.UserID = %s, want user-1", gotFilter.UserID)
	}
}

// --- SetStatus ---

func TestSetStatus_ApprovesPendingEntry(t *testing.T) {
	pending := &model.TimeLog{ID: "entry-1", UserID: "user-1", UserName: "Dev A", Status: model.TimeLogStatusPending, Hours: 7.5, Date: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)}
	approved := *pending
	approved.Status = model.TimeLogStatusApproved
	updateCalled := false

	repo := &mockTimeLogRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TimeLog, error) {
			if updateCalled {
				return &approved, nil
			}
			return pending, nil
		},
		updateStatusIfPendingFn: func(ctx context.Context, id string, status model.TimeLogStatus, approverID string, comment *string, updatedAt time.Time) (bool, error) {
			updateCalled = true
			if approverID != "mgr-1" {
				t.Errorf("approverID = %s, want mgr-1", approverID)
			}
			return true, nil
		},
	}
	recorder := &mockRecorder{}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, recorder, nil)

	manager := model.Actor{ID: "mgr-1", Name: "Manager", Role: model.RoleManager}
	entry, err := svc.SetStatus(context.Background(), manager, "entry-1", model.TimeLogStatusApproved, "OK")
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if entry.Status != model.TimeLogStatusApproved {
		t.Errorf("status = %s, want approved", entry.Status)
	}
	if len(recorder.calls) != 1 || recorder.calls[0] != "approved timesheet" {
		t.Errorf("recorded actions = %v, want [approved timesheet]", recorder.calls)
	}
}

func TestSetStatus_NonManagerForbidden(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	for _, role := range []model.Role{model.RoleDeveloper, model.RoleLeadership} {
		actor := model.Actor{ID: "u-1", Role: role}
		_, err := svc.SetStatus(context.Background(), actor, "entry-1", model.TimeLogStatusApproved, "")

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAuthorization {
			t.Errorf("role=%s: error = %v, want authorization error", role, err)
		}
	}
}

func TestSetStatus_AlreadyDecidedConflict(t *testing.T) {
	// 承認済みエントリの却下はInvalidStateTransitionになり、ステータスは変わらない
	approved := &model.TimeLog{ID: "entry-1", Status: model.TimeLogStatusApproved}
	repo := &mockTimeLogRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TimeLog, error) {
			return approved, nil
		},
		updateStatusIfPendingFn: func(ctx context.Context, id string, status model.TimeLogStatus, approverID string, comment *string, updatedAt time.Time) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	manager := model.Actor{ID: "mgr-1", Role: model.RoleManager}
	_, err := svc.SetStatus(context.Background(), manager, "entry-1", model.TimeLogStatusRejected, "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidStateTransition {
		t.Fatalf("error = %v, want invalid state transition", err)
	}
	if approved.Status != model.TimeLogStatusApproved {
		t.Errorf("status = %s, entry must stay approved", approved.Status)
	}
}

func TestSetStatus_EntryNotFound(t *testing.T) {
	repo := &mockTimeLogRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TimeLog, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	manager := model.Actor{ID: "mgr-1", Role: model.RoleManager}
	_, err := svc.SetStatus(context.Background(), manager, "nope", model.TimeLogStatusApproved, "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotFound {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestSetStatus_InvalidTargetStatus(t *testing.T) {
	svc := NewService(&mockTimeLogRepo{}, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	manager := model.Actor{ID: "mgr-1", Role: model.RoleManager}
	_, err := svc.SetStatus(context.Background(), manager, "entry-1", model.TimeLogStatusPending, "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Errorf("error = %v, want validation error", err)
	}
}

// --- DeleteEntry ---

func TestDeleteEntry_OwnPendingEntry(t *testing.T) {
	deleted := false
	repo := &mockTimeLogRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TimeLog, error) {
			return &model.TimeLog{ID: id, UserID: "user-1", Status: model.TimeLogStatusPending, Date: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) (bool, error) {
			deleted = true
			return true, nil
		},
	}
	recorder := &mockRecorder{}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, recorder, nil)

	actor := model.Actor{ID: "user-1", Role: model.RoleDeveloper}
	if err := svc.DeleteEntry(context.Background(), model.ScopeSelf("user-1"), actor, "entry-1"); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if !deleted {
		t.Error("entry should be deleted")
	}
	if len(recorder.calls) != 1 || recorder.calls[0] != "deleted timesheet" {
		t.Errorf("recorded actions = %v, want [deleted timesheet]", recorder.calls)
	}
}

func TestDeleteEntry_DeveloperCannotDeleteProcessedEntry(t *testing.T) {
	repo := &mockTimeLogRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TimeLog, error) {
			return &model.TimeLog{ID: id, UserID: "user-1", Status: model.TimeLogStatusApproved}, nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	actor := model.Actor{ID: "user-1", Role: model.RoleDeveloper}
	err := svc.DeleteEntry(context.Background(), model.ScopeSelf("user-1"), actor, "entry-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAuthorization {
		t.Errorf("error = %v, want authorization error", err)
	}
}

func TestDeleteEntry_AuditFailureAbortsDelete(t *testing.T) {
	deleted := false
	repo := &mockTimeLogRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TimeLog, error) {
			return &model.TimeLog{ID: id, UserID: "user-1", Status: model.TimeLogStatusPending}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) (bool, error) {
			deleted = true
			return true, nil
		},
	}
	recorder := &mockRecorder{
		recordFn: func(ctx context.Context, actor model.Actor, action string, target model.ActivityTarget, details map[string]any) (*model.ActivityLog, error) {
			return nil, errors.New("audit store down")
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, recorder, nil)

	actor := model.Actor{ID: "user-1", Role: model.RoleDeveloper}
	err := svc.DeleteEntry(context.Background(), model.ScopeSelf("user-1"), actor, "entry-1")
	if err == nil {
		t.Fatal("expected error when audit record fails")
	}
	if deleted {
		t.Error("delete must not happen when audit record fails")
	}
}

func TestDeleteEntry_NotFound(t *testing.T) {
	repo := &mockTimeLogRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TimeLog, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, stubSanitizer{}, nil, nil)

	actor := model.Actor{ID: "mgr-1", Role: model.RoleManager}
	err := svc.DeleteEntry(context.Background(), model.ScopeAll(), actor, "nope")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotFound {
		t.Errorf("error = %v, want not found", err)
	}
}

package service

import (
	"errors"
	"sort"
	"testing"
	"time"

	"datavault-server/internal/domain"
	"datavault-server/internal/repository"
)

// mockRecordRepo mirrors the store's owner-filter contract: a miss and
// an owner mismatch are the same ErrNotFound.
type mockRecordRepo struct {
	records map[string]*domain.Record
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{
		records: make(map[string]*domain.Record),
	}
}

// The mock stores copies so pointer aliasing cannot mask mutations
// the way it would not against a real backing store.
func (m *mockRecordRepo) Create(record *domain.Record) error {
	cp := *record
	m.records[record.ID] = &cp
	return nil
}

func (m *mockRecordRepo) ListByOwner(ownerID string) ([]*domain.Record, error) {
	records := make([]*domain.Record, 0)
	for _, rec := range m.records {
		if rec.OwnerID == ownerID {
			cp := *rec
			records = append(records, &cp)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (m *mockRecordRepo) Update(ownerID, recordID string, patch *domain.UpdateRecordRequest) (*domain.Record, error) {
	rec, exists := m.records[recordID]
	if !exists || rec.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.Content != nil {
		rec.Content = *patch.Content
	}
	rec.UpdatedAt = time.Now()
	cp := *rec
	return &cp, nil
}

func (m *mockRecordRepo) Delete(ownerID, recordID string) error {
	rec, exists := m.records[recordID]
	if !exists || rec.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.records, recordID)
	return nil
}

func strPtr(s string) *string { return &s }

func TestRecordService_Create(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	record, err := service.Create("user1", &domain.CreateRecordRequest{
		Title:   "shopping list",
		Content: "eggs, milk",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if record.ID == "" {
		t.Error("expected record ID to be generated")
	}
	if record.OwnerID != "user1" {
		t.Errorf("expected owner user1, got %q", record.OwnerID)
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be assigned")
	}
	if record.UpdatedAt.Before(record.CreatedAt) {
		t.Error("expected updated_at >= created_at")
	}
}

func TestRecordService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *domain.CreateRecordRequest
	}{
		{
			name: "empty title",
			req:  &domain.CreateRecordRequest{Title: "", Content: "body"},
		},
		{
			name: "whitespace title",
			req:  &domain.CreateRecordRequest{Title: "   ", Content: "body"},
		},
		{
			name: "empty content",
			req:  &domain.CreateRecordRequest{Title: "title", Content: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRecordRepo()
			service := NewRecordService(repo, nil)

			_, err := service.Create("user1", tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if len(repo.records) != 0 {
				t.Error("expected no record persisted on validation failure")
			}
		})
	}
}

func TestRecordService_ListScopedToOwner(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	service.Create("user1", &domain.CreateRecordRequest{Title: "a", Content: "1"})
	service.Create("user1", &domain.CreateRecordRequest{Title: "b", Content: "2"})
	service.Create("user2", &domain.CreateRecordRequest{Title: "c", Content: "3"})

	list, err := service.List("user1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 records for user1, got %d", len(list))
	}
	for _, rec := range list {
		if rec.OwnerID != "user1" {
			t.Errorf("List leaked record owned by %q", rec.OwnerID)
		}
	}
}

func TestRecordService_ListEmpty(t *testing.T) {
	service := NewRecordService(newMockRecordRepo(), nil)

	list, err := service.List("nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(list) != 0 {
		t.Errorf("expected no records, got %d", len(list))
	}
}

func TestRecordService_UpdateRoundTrip(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	created, err := service.Create("user1", &domain.CreateRecordRequest{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	updated, err := service.Update("user1", created.ID, &domain.UpdateRecordRequest{
		Content: strPtr("c2"),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if updated.ID != created.ID {
		t.Error("update changed record id")
	}
	if updated.OwnerID != "user1" {
		t.Error("update changed record owner")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("update changed creation timestamp")
	}
	if updated.Title != "t" {
		t.Errorf("unpatched title changed: %q", updated.Title)
	}
	if updated.Content != "c2" {
		t.Errorf("expected patched content, got %q", updated.Content)
	}
	if !updated.UpdatedAt.After(created.CreatedAt) {
		t.Error("expected modification timestamp to advance")
	}

	list, _ := service.List("user1")
	if len(list) != 1 || list[0].Content != "c2" {
		t.Error("List does not reflect the update")
	}
}

func TestRecordService_UpdateCrossOwnerIsNotFound(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	created, _ := service.Create("user2", &domain.CreateRecordRequest{Title: "theirs", Content: "x"})

	_, err := service.Update("user1", created.ID, &domain.UpdateRecordRequest{Title: strPtr("mine now")})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-owner update, got %v", err)
	}

	_, errMissing := service.Update("user1", "no-such-id", &domain.UpdateRecordRequest{Title: strPtr("x")})
	if !errors.Is(errMissing, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", errMissing)
	}

	// The two failure modes must be the same error value so callers
	// cannot distinguish "exists but not yours" from "does not exist".
	if !errors.Is(err, errMissing) && err.Error() != errMissing.Error() {
		t.Error("cross-owner and missing-id failures are distinguishable")
	}

	if repo.records[created.ID].Title != "theirs" {
		t.Error("cross-owner update mutated the record")
	}
}

func TestRecordService_UpdateValidation(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	created, _ := service.Create("user1", &domain.CreateRecordRequest{Title: "t", Content: "c"})

	_, err := service.Update("user1", created.ID, &domain.UpdateRecordRequest{Title: strPtr("")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty title patch, got %v", err)
	}

	if repo.records[created.ID].Title != "t" {
		t.Error("failed update mutated the record")
	}
}

func TestRecordService_DeleteIdempotentFailure(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	created, _ := service.Create("user1", &domain.CreateRecordRequest{Title: "t", Content: "c"})

	if err := service.Delete("user1", created.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}

	if err := service.Delete("user1", created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeated delete, got %v", err)
	}
}

func TestRecordService_DeleteCrossOwnerIsNotFound(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	created, _ := service.Create("user2", &domain.CreateRecordRequest{Title: "theirs", Content: "x"})

	if err := service.Delete("user1", created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-owner delete, got %v", err)
	}

	if _, exists := repo.records[created.ID]; !exists {
		t.Error("cross-owner delete removed the record")
	}
}

func TestRecordService_ListOrderDeterministic(t *testing.T) {
	repo := newMockRecordRepo()
	service := NewRecordService(repo, nil)

	for _, title := range []string{"first", "second", "third"} {
		if _, err := service.Create("user1", &domain.CreateRecordRequest{Title: title, Content: "c"}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	first, _ := service.List("user1")
	second, _ := service.List("user1")

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 records, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatal("list order is not stable across calls")
		}
	}
	if first[0].Title != "first" || first[2].Title != "third" {
		t.Error("expected creation order")
	}
}

package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"datavault-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type RecordRepository interface {
	Create(record *domain.Record) error
	ListByOwner(ownerID string) ([]*domain.Record, error)
	Update(ownerID, recordID string, patch *domain.UpdateRecordRequest) (*domain.Record, error)
	Delete(ownerID, recordID string) error
}

type recordRepository struct {
	client  *kivik.Client
	dbName  string
	timeout time.Duration
}

// recordDoc carries the CouchDB revision alongside the record so that
// update and delete are conditioned on the revision they read.
type recordDoc struct {
	Rev string `json:"_rev,omitempty"`
	domain.Record
}

func NewRecordRepository(client *kivik.Client, dbName string, timeout time.Duration) RecordRepository {
	return &recordRepository{
		client:  client,
		dbName:  dbName,
		timeout: timeout,
	}
}

func (r *recordRepository) Create(record *domain.Record) error {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("record:%s", record.ID)
	if _, err := db.Put(ctx, docID, record); err != nil {
		return fmt.Errorf("failed to create record: %w", storageErr(err))
	}

	return nil
}

func (r *recordRepository) ListByOwner(ownerID string) ([]*domain.Record, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"owner_id": ownerID,
			"title":    map[string]interface{}{"$exists": true},
		},
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", storageErr(err))
	}
	defer rows.Close()

	records := make([]*domain.Record, 0)
	for rows.Next() {
		var record domain.Record
		if err := rows.ScanDoc(&record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	// Mango queries without an index have no stable order of their own.
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})

	return records, nil
}

// Update is a single find-and-update guarded by the document revision:
// the patch only lands if the record still matches what was read. A
// revision conflict means a concurrent writer got there first and is
// reported as a retryable storage failure.
func (r *recordRepository) Update(ownerID, recordID string, patch *domain.UpdateRecordRequest) (*domain.Record, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("record:%s", recordID)

	var doc recordDoc
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&doc); err != nil {
		return nil, lookupErr(err)
	}

	if doc.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}
	doc.UpdatedAt = time.Now()

	if _, err := db.Put(ctx, docID, &doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusConflict {
			return nil, fmt.Errorf("%w: concurrent update on record %s", ErrUnavailable, recordID)
		}
		return nil, fmt.Errorf("failed to update record: %w", storageErr(err))
	}

	return &doc.Record, nil
}

func (r *recordRepository) Delete(ownerID, recordID string) error {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("record:%s", recordID)

	var doc recordDoc
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&doc); err != nil {
		return lookupErr(err)
	}

	if doc.OwnerID != ownerID {
		return ErrNotFound
	}

	if _, err := db.Delete(ctx, docID, doc.Rev); err != nil {
		// A revision conflict here means the record was deleted out
		// from under us; the race has exactly one winner.
		status := kivik.HTTPStatus(err)
		if status == http.StatusNotFound || status == http.StatusConflict {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete record: %w", storageErr(err))
	}

	return nil
}

func (r *recordRepository) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func lookupErr(err error) error {
	if kivik.HTTPStatus(err) == http.StatusNotFound {
		return ErrNotFound
	}
	return fmt.Errorf("record lookup failed: %w", storageErr(err))
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

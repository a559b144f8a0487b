package domain

import "time"

// Record is a single user-owned document. OwnerID is assigned from the
// verified credential at creation and is never patchable afterwards.
type Record struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unknown fields in request bodies are ignored; declared fields are
// validated before any store logic runs. An owner field supplied by the
// client has no representation here and is therefore never honored.
type CreateRecordRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type UpdateRecordRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

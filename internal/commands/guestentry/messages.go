package guestentrycmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/google/uuid"
)

const (
	createEntryMessageType = "guestentries.entry.create"
	updateEntryMessageType = "guestentries.entry.update"
	deleteEntryMessageType = "guestentries.entry.delete"
)

// CreateEntryCommand carries a guest create submission.
type CreateEntryCommand struct {
	Submission forms.Submission `json:"-"`
}

// Type implements command.Message.
func (CreateEntryCommand) Type() string { return createEntryMessageType }

// Validate ensures the submission names a collection.
func (m CreateEntryCommand) Validate() error {
	errs := validation.Errors{}
	requireCollection(errs, m.Submission, createEntryMessageType)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEntryCommand carries a guest update submission.
type UpdateEntryCommand struct {
	Submission forms.Submission `json:"-"`
}

// Type implements command.Message.
func (UpdateEntryCommand) Type() string { return updateEntryMessageType }

// Validate ensures the submission names a collection and an entry.
func (m UpdateEntryCommand) Validate() error {
	errs := validation.Errors{}
	requireCollection(errs, m.Submission, updateEntryMessageType)
	requireEntryID(errs, m.Submission, updateEntryMessageType)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteEntryCommand carries a guest delete submission.
type DeleteEntryCommand struct {
	Submission forms.Submission `json:"-"`
}

// NewDeleteEntryCommand builds a delete command outside of an HTTP request.
func NewDeleteEntryCommand(collection string, id uuid.UUID) DeleteEntryCommand {
	return DeleteEntryCommand{Submission: forms.New(map[string]any{
		forms.KeyCollection: collection,
		forms.KeyID:         id.String(),
	})}
}

// Type implements command.Message.
func (DeleteEntryCommand) Type() string { return deleteEntryMessageType }

// Validate ensures the submission names a collection and an entry.
func (m DeleteEntryCommand) Validate() error {
	errs := validation.Errors{}
	requireCollection(errs, m.Submission, deleteEntryMessageType)
	requireEntryID(errs, m.Submission, deleteEntryMessageType)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func requireCollection(errs validation.Errors, sub forms.Submission, prefix string) {
	if strings.TrimSpace(sub.String(forms.KeyCollection)) == "" {
		errs[forms.KeyCollection] = validation.NewError(prefix+".collection_required", "_collection is required")
	}
}

func requireEntryID(errs validation.Errors, sub forms.Submission, prefix string) {
	raw := strings.TrimSpace(sub.String(forms.KeyID))
	if raw == "" {
		errs[forms.KeyID] = validation.NewError(prefix+".id_required", "_id is required")
		return
	}
	if _, err := uuid.Parse(raw); err != nil {
		errs[forms.KeyID] = validation.NewError(prefix+".id_invalid", "_id must be a valid UUID")
	}
}

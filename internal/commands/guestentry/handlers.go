package guestentrycmd

import (
	"context"

	"github.com/goliatone/go-command"
	"github.com/goliatone/go-guestentries/internal/commands"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/goliatone/go-guestentries/internal/submissions"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

var (
	_ command.Commander[CreateEntryCommand] = (*CreateEntryHandler)(nil)
	_ command.Commander[UpdateEntryCommand] = (*UpdateEntryHandler)(nil)
	_ command.Commander[DeleteEntryCommand] = (*DeleteEntryHandler)(nil)
)

// SubmissionService is the subset of the submission service the handlers use.
type SubmissionService interface {
	Create(ctx context.Context, sub forms.Submission) (*submissions.Outcome, error)
	Update(ctx context.Context, sub forms.Submission) (*submissions.Outcome, error)
	Delete(ctx context.Context, sub forms.Submission) (*submissions.Outcome, error)
}

// CreateEntryHandler runs create submissions through the shared command handler.
type CreateEntryHandler struct {
	inner *commands.Handler[CreateEntryCommand]
}

// NewCreateEntryHandler constructs a handler wired to the submission service.
func NewCreateEntryHandler(service SubmissionService, logger interfaces.Logger, opts ...commands.HandlerOption[CreateEntryCommand]) *CreateEntryHandler {
	exec := func(ctx context.Context, msg CreateEntryCommand) error {
		_, err := service.Create(ctx, msg.Submission)
		return err
	}
	handlerOpts := []commands.HandlerOption[CreateEntryCommand]{
		commands.WithLogger[CreateEntryCommand](logger),
		commands.WithOperation[CreateEntryCommand]("guest_entry.create"),
	}
	return &CreateEntryHandler{
		inner: commands.NewHandler[CreateEntryCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[CreateEntryCommand].Execute.
func (h *CreateEntryHandler) Execute(ctx context.Context, msg CreateEntryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateEntryHandler runs update submissions through the shared command handler.
type UpdateEntryHandler struct {
	inner *commands.Handler[UpdateEntryCommand]
}

// NewUpdateEntryHandler constructs a handler wired to the submission service.
func NewUpdateEntryHandler(service SubmissionService, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateEntryCommand]) *UpdateEntryHandler {
	exec := func(ctx context.Context, msg UpdateEntryCommand) error {
		_, err := service.Update(ctx, msg.Submission)
		return err
	}
	handlerOpts := []commands.HandlerOption[UpdateEntryCommand]{
		commands.WithLogger[UpdateEntryCommand](logger),
		commands.WithOperation[UpdateEntryCommand]("guest_entry.update"),
	}
	return &UpdateEntryHandler{
		inner: commands.NewHandler[UpdateEntryCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[UpdateEntryCommand].Execute.
func (h *UpdateEntryHandler) Execute(ctx context.Context, msg UpdateEntryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteEntryHandler runs delete submissions through the shared command handler.
type DeleteEntryHandler struct {
	inner *commands.Handler[DeleteEntryCommand]
}

// NewDeleteEntryHandler constructs a handler wired to the submission service.
func NewDeleteEntryHandler(service SubmissionService, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteEntryCommand]) *DeleteEntryHandler {
	exec := func(ctx context.Context, msg DeleteEntryCommand) error {
		_, err := service.Delete(ctx, msg.Submission)
		return err
	}
	handlerOpts := []commands.HandlerOption[DeleteEntryCommand]{
		commands.WithLogger[DeleteEntryCommand](logger),
		commands.WithOperation[DeleteEntryCommand]("guest_entry.delete"),
	}
	return &DeleteEntryHandler{
		inner: commands.NewHandler[DeleteEntryCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[DeleteEntryCommand].Execute.
func (h *DeleteEntryHandler) Execute(ctx context.Context, msg DeleteEntryCommand) error {
	return h.inner.Execute(ctx, msg)
}

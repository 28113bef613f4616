package di

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	guestentrycmd "github.com/goliatone/go-guestentries/internal/commands/guestentry"
)

// CommandRegistry records command handlers so hosts can expose them via CLI.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures where handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe releases every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterCommands hands the create, update and delete handlers to the
// configured registry and dispatcher.
func (c *Container) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, 3),
		Subscriptions: make([]CommandSubscription, 0, 3),
	}

	var errs error
	for _, handler := range []any{c.createHandler, c.updateHandler, c.deleteHandler} {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}
	return result, errs
}

// GoCommandDispatcher subscribes handlers on the go-command global dispatcher.
type GoCommandDispatcher struct{}

// RegisterCommand satisfies CommandDispatcher.
func (GoCommandDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch typed := handler.(type) {
	case *guestentrycmd.CreateEntryHandler:
		return dispatcher.SubscribeCommand(typed), nil
	case *guestentrycmd.UpdateEntryHandler:
		return dispatcher.SubscribeCommand(typed), nil
	case *guestentrycmd.DeleteEntryHandler:
		return dispatcher.SubscribeCommand(typed), nil
	default:
		return nil, fmt.Errorf("di: unsupported command handler %T", handler)
	}
}

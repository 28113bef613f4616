package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

const (
	rootModule        = "guestentries"
	submissionsModule = "guestentries.submissions"
	httpModule        = "guestentries.http"
	uploadsModule     = "guestentries.uploads"
	commandsModule    = "guestentries.commands"
)

const (
	fieldCollection = "collection"
	fieldAction     = "action"
	fieldEntryID    = "entry_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// SubmissionsLogger returns the logger namespace reserved for the submission pipeline.
func SubmissionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, submissionsModule)
}

// HTTPLogger returns the logger namespace reserved for the public form endpoints.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// UploadsLogger returns the logger namespace reserved for file uploads.
func UploadsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, uploadsModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithSubmissionContext enriches the logger with collection, action and entry
// identifiers. Empty values are ignored.
func WithSubmissionContext(logger interfaces.Logger, collection, action, entryID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	if trimmed := strings.TrimSpace(entryID); trimmed != "" {
		fields[fieldEntryID] = trimmed
	}
	return WithFields(logger, fields)
}

// FromContext returns the logger enriched with fields annotated on ctx.
func FromContext(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		logger = NoOp()
	}
	return WithFields(logger, ContextFields(ctx))
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, maps.Clone(fields))
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "guestentries.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = SubmissionsLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != submissionsModule {
		t.Fatalf("expected module %s, got %v", submissionsModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != submissionsModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = ModuleLogger(provider, "")
	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithSubmissionContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	_ = WithSubmissionContext(rec, " comments ", "create", "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldCollection] != "comments" || got[fieldAction] != "create" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldEntryID]; ok {
		t.Fatalf("expected empty entry id to be skipped")
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"collection": "comments"})
	ctx = ContextWithFields(ctx, map[string]any{"action": "create"})

	fields := ContextFields(ctx)
	if fields["collection"] != "comments" || fields["action"] != "create" {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["collection"] = "mutated"
	if ContextFields(ctx)["collection"] != "comments" {
		t.Fatalf("expected ContextFields to return a copy")
	}

	rec := &recordingLogger{}
	_ = FromContext(ctx, rec)
	if len(rec.fields) != 1 || rec.fields[0]["action"] != "create" {
		t.Fatalf("expected context fields on logger, got %v", rec.fields)
	}
}

package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

// Result classifies how a command run ended.
type Result string

const (
	ResultOK       Result = "ok"
	ResultFailed   Result = "failed"
	ResultCanceled Result = "canceled"
)

// Execution is handed to observers once a command returns.
type Execution struct {
	Command   string
	Operation string
	Result    Result
	Err       error
	Elapsed   time.Duration
}

// Observer is notified after every execution, successful or not.
type Observer[T command.Message] func(ctx context.Context, msg T, run Execution)

// LogObserver logs executions at info on success and error otherwise.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	logger = ensureLogger(logger)
	return func(_ context.Context, _ T, run Execution) {
		args := []any{"elapsed_ms", run.Elapsed.Milliseconds()}
		if run.Result == ResultOK {
			logger.Info("command.execute.ok", args...)
			return
		}
		logger.Error("command.execute."+string(run.Result), append(args, "error", run.Err)...)
	}
}

func resultOf(err error) Result {
	switch {
	case err == nil:
		return ResultOK
	case isContextError(err):
		return ResultCanceled
	default:
		return ResultFailed
	}
}

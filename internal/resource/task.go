package resource

import (
	"context"
	"strings"
	"time"

	"raidctl/internal/raiderr"
	"raidctl/pkg/redfish"
)

// TaskPollInterval is the delay between Task polls.
const TaskPollInterval = 3 * time.Second

// terminalStates are the TaskState values at which polling stops.
var terminalStates = map[string]bool{
	redfish.TaskStateCompleted:   true,
	redfish.TaskStateException:   true,
	redfish.TaskStateCancelled:   true,
	redfish.TaskStateKilled:      true,
	redfish.TaskStateInterrupted: true,
}

// IsTerminal reports whether TaskState represents a finished task (success
// or failure) rather than one still in flight.
func IsTerminal(state string) bool {
	return terminalStates[state]
}

// Succeeded reports whether a terminal task completed without error. Only
// TaskState decides this: a Completed task with a Critical TaskStatus (a
// completed-with-warnings report) still counts as success, while
// Interrupted, Killed, and Exception states never do.
func Succeeded(t redfish.Task) bool {
	return t.TaskState == redfish.TaskStateCompleted
}

// WaitTask polls the task at odataID every TaskPollInterval until it reaches
// a terminal state, returning the final body. If the task finished in
// failure it returns a *raiderr.Error of KindTaskFailed wrapping the final
// body's messages.
func WaitTask(ctx context.Context, loader Loader, odataID string) (redfish.Task, error) {
	ticker := time.NewTicker(TaskPollInterval)
	defer ticker.Stop()

	for {
		var t redfish.Task
		if _, err := loader.Get(ctx, odataID, &t); err != nil {
			return redfish.Task{}, err
		}

		if IsTerminal(t.TaskState) {
			if Succeeded(t) {
				return t, nil
			}
			return t, raiderr.New(raiderr.KindTaskFailed, taskFailureMessage(t))
		}

		select {
		case <-ctx.Done():
			return redfish.Task{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func taskFailureMessage(t redfish.Task) string {
	if len(t.Messages) == 0 {
		return "task " + t.ID + " finished with status " + t.TaskStatus
	}
	var b strings.Builder
	b.WriteString("task ")
	b.WriteString(t.ID)
	b.WriteString(" failed: ")
	for i, m := range t.Messages {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(m.Message)
	}
	return b.String()
}

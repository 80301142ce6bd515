package notify

import "strings"

const actionPrefix = "show:"

// ActivationArgument returns the action token that reopens a task.
func ActivationArgument(taskID string) string {
	return actionPrefix + taskID
}

// ParseActivationArgument extracts the task id from an action token.
func ParseActivationArgument(argument string) (string, bool) {
	if !strings.HasPrefix(argument, actionPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(argument, actionPrefix)
	if strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

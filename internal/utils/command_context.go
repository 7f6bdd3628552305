package utils

import "context"

const suitePathContextKeyConstant = commandContextKey("suitePath")

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithSuitePath attaches the resolved suite file path to the provided context.
func (accessor CommandContextAccessor) WithSuitePath(parentContext context.Context, suitePath string) context.Context {
	return withString(parentContext, suitePathContextKeyConstant, suitePath)
}

// SuitePath extracts the resolved suite file path from the provided context.
func (accessor CommandContextAccessor) SuitePath(executionContext context.Context) (string, bool) {
	return stringValue(executionContext, suitePathContextKeyConstant)
}

func withString(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	if !available || len(value) == 0 {
		return "", false
	}
	return value, true
}

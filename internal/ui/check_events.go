package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/checks"
)

const (
	checkStartedMessageTemplateConstant   = "Checking %s (%s)"
	checkCompletedMessageTemplateConstant = "%s %s: %s"
)

// CheckEventLogger prints one line per finished check; it satisfies runner.Observer.
type CheckEventLogger struct {
	logger *zap.Logger
}

// NewCheckEventLogger constructs a check event logger backed by the provided zap logger.
func NewCheckEventLogger(logger *zap.Logger) *CheckEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckEventLogger{logger: logger}
}

// CheckStarted logs at debug level.
func (eventLogger *CheckEventLogger) CheckStarted(definition checks.Definition) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(fmt.Sprintf(checkStartedMessageTemplateConstant, definition.ID, definition.Kind))
}

// CheckCompleted logs passes at info level and anything else at warn level.
func (eventLogger *CheckEventLogger) CheckCompleted(result checks.Result) {
	if eventLogger == nil {
		return
	}
	message := fmt.Sprintf(checkCompletedMessageTemplateConstant, strings.ToUpper(string(result.Status)), result.Definition.ID, result.Message)
	if result.Passed() {
		eventLogger.logger.Info(message)
		return
	}
	eventLogger.logger.Warn(message)
}

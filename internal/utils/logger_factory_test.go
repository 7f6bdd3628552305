package utils_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/readiness/internal/utils"
)

const (
	testLoggerFactoryCaseSupportedFormatConstant   = "supported_log_level_%s_format_%s"
	testLoggerFactoryCaseUnsupportedLevelConstant  = "unsupported_log_level"
	testLoggerFactoryCaseUnsupportedFormatConstant = "unsupported_log_format"
	testLoggerFactorySubtestTemplateConstant       = "%d_%s"
	testInvalidLogLevelConstant                    = "invalid"
	testInvalidLogFormatConstant                   = "invalid"
	testLogMessageConstant                         = "logger_factory_test_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelDebug, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:               fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatConsole),
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatConsole,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedLevelConstant,
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedFormatConstant,
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatConstant),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			var outputBuffer bytes.Buffer
			loggerFactory := utils.NewLoggerFactoryWithWriter(&outputBuffer)

			logger, creationError := loggerFactory.CreateLogger(utils.LoggerConfiguration{Level: testCase.requestedLogLevel, Format: testCase.requestedLogFormat})
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Info(testLogMessageConstant)
			require.NoError(testInstance, logger.Sync())

			trimmedOutput := bytes.TrimSpace(outputBuffer.Bytes())
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid(trimmedOutput))
		})
	}
}

func TestLoggerFactoryHonorsLevel(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	logger, creationError := utils.NewLoggerFactoryWithWriter(&outputBuffer).CreateLogger(utils.LoggerConfiguration{Level: utils.LogLevelWarn, Format: utils.LogFormatStructured})
	require.NoError(testInstance, creationError)

	logger.Info("hidden")
	logger.Warn("visible")
	require.NotContains(testInstance, outputBuffer.String(), "hidden")
	require.Contains(testInstance, outputBuffer.String(), "visible")
}

func TestLoggerFactoryWritesRotatingFile(testInstance *testing.T) {
	logFilePath := filepath.Join(testInstance.TempDir(), "logs", "readiness.log")
	logger, creationError := utils.NewLoggerFactory().CreateLogger(utils.LoggerConfiguration{Level: utils.LogLevelInfo, Format: utils.LogFormatStructured, FilePath: logFilePath})
	require.NoError(testInstance, creationError)

	logger.Info(testLogMessageConstant)
	require.NoError(testInstance, logger.Sync())

	content, readError := os.ReadFile(logFilePath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(content), testLogMessageConstant)
}

func TestLoggerFactoryCreateLoggerOutputs(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	outputs, creationError := utils.NewLoggerFactoryWithWriter(&outputBuffer).CreateLoggerOutputs(utils.LoggerConfiguration{Level: utils.LogLevelInfo, Format: utils.LogFormatStructured})
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, outputs.DiagnosticLogger)
	require.NotNil(testInstance, outputs.ConsoleLogger)

	outputs.ConsoleLogger.Info("PASS readme: file README.md exists")
	require.Equal(testInstance, "PASS readme: file README.md exists", strings.TrimSpace(outputBuffer.String()))
}

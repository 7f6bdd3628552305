package readiness

import (
	"strings"
	"time"

	"github.com/temirov/readiness/internal/report"
	"github.com/temirov/readiness/internal/runner"
	"github.com/temirov/readiness/internal/watch"
)

const (
	defaultSuitePathConstant                = "readiness.yaml"
	defaultOutputDirectoryConstant          = "reports"
	defaultWatchIntervalConstant            = 10 * time.Second
	configurationSuiteKeyConstant           = "suite"
	configurationOutputDirectoryKeyConstant = "output_directory"
	configurationFormatsKeyConstant         = "formats"
	configurationParallelismKeyConstant     = "parallelism"
	configurationQuietKeyConstant           = "quiet"
	configurationDetailedKeyConstant        = "detailed"
	configurationIntervalKeyConstant        = "interval"
	configurationWatchPathsKeyConstant      = "watch_paths"
	configurationDebounceKeyConstant        = "debounce"
	configurationKeySeparatorConstant       = "."
	runConfigurationSectionConstant         = "run"
	watchConfigurationSectionConstant       = "watch"
)

// RunConfiguration captures configuration values for the run command.
type RunConfiguration struct {
	Suite           string   `mapstructure:"suite"`
	OutputDirectory string   `mapstructure:"output_directory"`
	Formats         []string `mapstructure:"formats"`
	Parallelism     int      `mapstructure:"parallelism"`
	Quiet           bool     `mapstructure:"quiet"`
	Detailed        bool     `mapstructure:"detailed"`
}

// WatchConfiguration captures configuration values for the watch command.
type WatchConfiguration struct {
	RunConfiguration `mapstructure:",squash"`
	Interval         time.Duration `mapstructure:"interval"`
	WatchPaths       []string      `mapstructure:"watch_paths"`
	Debounce         time.Duration `mapstructure:"debounce"`
}

// ToolsConfiguration groups the readiness command configurations under the tools section.
type ToolsConfiguration struct {
	Run   RunConfiguration   `mapstructure:"run"`
	Watch WatchConfiguration `mapstructure:"watch"`
}

// DefaultRunConfiguration provides the default run command settings.
func DefaultRunConfiguration() RunConfiguration {
	return RunConfiguration{
		Suite:           defaultSuitePathConstant,
		OutputDirectory: defaultOutputDirectoryConstant,
		Formats:         []string{string(report.FormatJSON), string(report.FormatMarkdown)},
		Parallelism:     runner.DefaultParallelism,
	}
}

// DefaultWatchConfiguration provides the default watch command settings.
func DefaultWatchConfiguration() WatchConfiguration {
	return WatchConfiguration{
		RunConfiguration: DefaultRunConfiguration(),
		Interval:         defaultWatchIntervalConstant,
		Debounce:         watch.DefaultDebounce,
	}
}

// DefaultConfigurationValues exposes the defaults as configuration keys below the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	runDefaults := DefaultRunConfiguration()
	watchDefaults := DefaultWatchConfiguration()
	runPrefix := joinConfigurationKey(prefix, runConfigurationSectionConstant)
	watchPrefix := joinConfigurationKey(prefix, watchConfigurationSectionConstant)

	return map[string]any{
		joinConfigurationKey(runPrefix, configurationSuiteKeyConstant):             runDefaults.Suite,
		joinConfigurationKey(runPrefix, configurationOutputDirectoryKeyConstant):   runDefaults.OutputDirectory,
		joinConfigurationKey(runPrefix, configurationFormatsKeyConstant):           runDefaults.Formats,
		joinConfigurationKey(runPrefix, configurationParallelismKeyConstant):       runDefaults.Parallelism,
		joinConfigurationKey(runPrefix, configurationQuietKeyConstant):             runDefaults.Quiet,
		joinConfigurationKey(runPrefix, configurationDetailedKeyConstant):          runDefaults.Detailed,
		joinConfigurationKey(watchPrefix, configurationSuiteKeyConstant):           watchDefaults.Suite,
		joinConfigurationKey(watchPrefix, configurationOutputDirectoryKeyConstant): watchDefaults.OutputDirectory,
		joinConfigurationKey(watchPrefix, configurationFormatsKeyConstant):         watchDefaults.Formats,
		joinConfigurationKey(watchPrefix, configurationParallelismKeyConstant):     watchDefaults.Parallelism,
		joinConfigurationKey(watchPrefix, configurationQuietKeyConstant):           watchDefaults.Quiet,
		joinConfigurationKey(watchPrefix, configurationDetailedKeyConstant):        watchDefaults.Detailed,
		joinConfigurationKey(watchPrefix, configurationIntervalKeyConstant):        watchDefaults.Interval,
		joinConfigurationKey(watchPrefix, configurationWatchPathsKeyConstant):      watchDefaults.WatchPaths,
		joinConfigurationKey(watchPrefix, configurationDebounceKeyConstant):        watchDefaults.Debounce,
	}
}

// Sanitize trims values and restores defaults for blank or invalid settings.
func (configuration RunConfiguration) Sanitize() RunConfiguration {
	defaults := DefaultRunConfiguration()
	sanitized := configuration
	sanitized.Suite = strings.TrimSpace(configuration.Suite)
	if len(sanitized.Suite) == 0 {
		sanitized.Suite = defaults.Suite
	}
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)
	if len(sanitized.OutputDirectory) == 0 {
		sanitized.OutputDirectory = defaults.OutputDirectory
	}
	sanitized.Formats = sanitizeValues(configuration.Formats)
	if sanitized.Parallelism <= 0 {
		sanitized.Parallelism = defaults.Parallelism
	}
	return sanitized
}

// Sanitize trims values and restores defaults for blank or invalid settings.
func (configuration WatchConfiguration) Sanitize() WatchConfiguration {
	sanitized := configuration
	sanitized.RunConfiguration = configuration.RunConfiguration.Sanitize()
	sanitized.WatchPaths = sanitizeValues(configuration.WatchPaths)
	if sanitized.Interval < 0 {
		sanitized.Interval = 0
	}
	if sanitized.Debounce <= 0 {
		sanitized.Debounce = watch.DefaultDebounce
	}
	return sanitized
}

func sanitizeValues(raw []string) []string {
	trimmed := make([]string, 0, len(raw))
	for _, candidate := range raw {
		value := strings.TrimSpace(candidate)
		if len(value) == 0 {
			continue
		}
		trimmed = append(trimmed, value)
	}
	return trimmed
}

func joinConfigurationKey(prefix string, key string) string {
	if len(prefix) == 0 {
		return key
	}
	return prefix + configurationKeySeparatorConstant + key
}

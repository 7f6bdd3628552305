package watch

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/temirov/readiness/internal/filesystem"
)

const (
	// DefaultDebounce coalesces bursts of file events into a single iteration.
	DefaultDebounce = 300 * time.Millisecond

	watchTriggerRequiredMessageConstant = "watch requires a positive interval or at least one path"
	loggerRequiredMessageConstant       = "watcher requires a logger"
	iterationFailedLogMessageConstant   = "watch iteration failed"
	watchPathFailedLogMessageConstant   = "unable to watch path"
	watchEventLogMessageConstant        = "watched path changed"
	watchErrorLogMessageConstant        = "file watcher error"
	watchStoppedLogMessageConstant      = "watch stopped"
	logFieldPathConstant                = "path"
	logFieldOperationConstant           = "operation"
	logFieldIterationConstant           = "iteration"
	logFieldTriggerConstant             = "trigger"
	triggerInitialConstant              = "initial"
	triggerIntervalConstant             = "interval"
	triggerChangeConstant               = "change"
)

var (
	// ErrNoTrigger indicates neither an interval nor watch paths were configured.
	ErrNoTrigger = errors.New(watchTriggerRequiredMessageConstant)
	// ErrLoggerNotConfigured indicates the watcher was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerRequiredMessageConstant)

	skippedDirectoryNames = map[string]struct{}{".git": {}, "node_modules": {}, "vendor": {}}
)

// Configuration controls when iterations run.
type Configuration struct {
	Interval     time.Duration
	Paths        []string
	IgnoredPaths []string
	Debounce     time.Duration
	Iterations   int
}

// Iteration is invoked once per trigger.
type Iteration func(executionContext context.Context) error

// Watcher drives the iteration loop.
type Watcher struct {
	logger        *zap.Logger
	fileSystem    filesystem.FileSystem
	configuration Configuration
}

// NewWatcher validates the configuration.
func NewWatcher(logger *zap.Logger, fileSystem filesystem.FileSystem, configuration Configuration) (*Watcher, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if configuration.Interval <= 0 && len(configuration.Paths) == 0 {
		return nil, ErrNoTrigger
	}
	if configuration.Debounce <= 0 {
		configuration.Debounce = DefaultDebounce
	}
	configuration.Paths = absolutePaths(configuration.Paths)
	configuration.IgnoredPaths = absolutePaths(configuration.IgnoredPaths)
	return &Watcher{logger: logger, fileSystem: filesystem.Resolve(fileSystem), configuration: configuration}, nil
}

// Run executes the iteration immediately, then on every tick or debounced change.
// It returns nil once the context is cancelled or the iteration budget is spent.
func (watcher *Watcher) Run(executionContext context.Context, iteration Iteration) error {
	var fileWatcher *fsnotify.Watcher
	var fileEvents <-chan fsnotify.Event
	var fileErrors <-chan error
	if len(watcher.configuration.Paths) > 0 {
		createdWatcher, watcherError := fsnotify.NewWatcher()
		if watcherError != nil {
			return watcherError
		}
		defer createdWatcher.Close()
		fileWatcher = createdWatcher
		watcher.addPaths(fileWatcher)
		fileEvents = fileWatcher.Events
		fileErrors = fileWatcher.Errors
	}

	var tickerChannel <-chan time.Time
	if watcher.configuration.Interval > 0 {
		ticker := time.NewTicker(watcher.configuration.Interval)
		defer ticker.Stop()
		tickerChannel = ticker.C
	}

	debounceTimer := time.NewTimer(watcher.configuration.Debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	completedIterations := 0
	execute := func(trigger string) bool {
		completedIterations++
		iterationError := iteration(executionContext)
		if executionContext.Err() != nil {
			return false
		}
		if iterationError != nil {
			watcher.logger.Warn(iterationFailedLogMessageConstant,
				zap.Int(logFieldIterationConstant, completedIterations),
				zap.String(logFieldTriggerConstant, trigger),
				zap.Error(iterationError),
			)
		}
		return watcher.configuration.Iterations <= 0 || completedIterations < watcher.configuration.Iterations
	}

	if !execute(triggerInitialConstant) {
		watcher.logger.Debug(watchStoppedLogMessageConstant, zap.Int(logFieldIterationConstant, completedIterations))
		return nil
	}

	for {
		select {
		case <-executionContext.Done():
			watcher.logger.Debug(watchStoppedLogMessageConstant, zap.Int(logFieldIterationConstant, completedIterations))
			return nil
		case <-tickerChannel:
			if !execute(triggerIntervalConstant) {
				return nil
			}
		case <-debounceTimer.C:
			if !execute(triggerChangeConstant) {
				return nil
			}
		case event, open := <-fileEvents:
			if !open {
				fileEvents = nil
				continue
			}
			if !watcher.relevant(event) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				watcher.addCreatedDirectory(fileWatcher, event.Name)
			}
			watcher.logger.Debug(watchEventLogMessageConstant,
				zap.String(logFieldPathConstant, event.Name),
				zap.String(logFieldOperationConstant, event.Op.String()),
			)
			debounceTimer.Reset(watcher.configuration.Debounce)
		case eventError, open := <-fileErrors:
			if !open {
				fileErrors = nil
				continue
			}
			watcher.logger.Warn(watchErrorLogMessageConstant, zap.Error(eventError))
		}
	}
}

func (watcher *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return !watcher.ignored(event.Name)
}

// ignored compares absolute forms so relative watch paths still match ignored directories.
func (watcher *Watcher) ignored(path string) bool {
	cleanedPath := absolutePath(path)
	for _, ignoredPath := range watcher.configuration.IgnoredPaths {
		if cleanedPath == ignoredPath || strings.HasPrefix(cleanedPath, ignoredPath+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func absolutePath(path string) string {
	resolvedPath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return filepath.Clean(path)
	}
	return resolvedPath
}

func absolutePaths(paths []string) []string {
	resolvedPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		if len(strings.TrimSpace(path)) == 0 {
			continue
		}
		resolvedPaths = append(resolvedPaths, absolutePath(path))
	}
	return resolvedPaths
}

// addPaths registers files directly and directories recursively, skipping VCS and dependency trees.
func (watcher *Watcher) addPaths(fileWatcher *fsnotify.Watcher) {
	for _, rootPath := range watcher.configuration.Paths {
		info, statError := watcher.fileSystem.Stat(rootPath)
		if statError != nil {
			watcher.logger.Warn(watchPathFailedLogMessageConstant, zap.String(logFieldPathConstant, rootPath), zap.Error(statError))
			continue
		}
		if !info.IsDir() {
			watcher.addPath(fileWatcher, rootPath)
			continue
		}
		watcher.addDirectoryTree(fileWatcher, rootPath)
	}
}

// addCreatedDirectory extends the watch to a directory tree that appeared after startup.
func (watcher *Watcher) addCreatedDirectory(fileWatcher *fsnotify.Watcher, path string) {
	if fileWatcher == nil {
		return
	}
	if _, skip := skippedDirectoryNames[filepath.Base(path)]; skip {
		return
	}
	info, statError := watcher.fileSystem.Stat(path)
	if statError != nil || !info.IsDir() {
		return
	}
	watcher.addDirectoryTree(fileWatcher, path)
}

func (watcher *Watcher) addDirectoryTree(fileWatcher *fsnotify.Watcher, rootPath string) {
	walkError := watcher.fileSystem.WalkDir(rootPath, func(path string, entry fs.DirEntry, walkError error) error {
		if walkError != nil || !entry.IsDir() {
			return nil
		}
		if path != rootPath {
			if _, skip := skippedDirectoryNames[entry.Name()]; skip {
				return fs.SkipDir
			}
		}
		if watcher.ignored(path) {
			return fs.SkipDir
		}
		watcher.addPath(fileWatcher, path)
		return nil
	})
	if walkError != nil {
		watcher.logger.Warn(watchPathFailedLogMessageConstant, zap.String(logFieldPathConstant, rootPath), zap.Error(walkError))
	}
}

func (watcher *Watcher) addPath(fileWatcher *fsnotify.Watcher, path string) {
	if addError := fileWatcher.Add(path); addError != nil {
		watcher.logger.Warn(watchPathFailedLogMessageConstant, zap.String(logFieldPathConstant, path), zap.Error(addError))
	}
}

package report

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/readiness/internal/filesystem"
)

const (
	reportFileBaseNameConstant             = "readiness-report"
	reportDirectoryRequiredMessageConstant = "report output directory must be provided"
	reportDirectoryCreateTemplateConstant  = "failed to create report directory %s: %w"
	reportFileWriteTemplateConstant        = "failed to write report %s: %w"
	reportDirectoryPermissionsConstant     = 0o755
	reportFilePermissionsConstant          = 0o644
)

// FileName returns the report file name for the format.
func FileName(format Format) string {
	return reportFileBaseNameConstant + "." + format.Extension()
}

// WriteFiles renders the report once per format into the directory, returning the written paths in format order.
// Duplicate formats are written once.
func WriteFiles(fileSystem filesystem.FileSystem, report Report, directory string, formats []Format) ([]string, error) {
	trimmedDirectory := strings.TrimSpace(directory)
	if len(trimmedDirectory) == 0 {
		return nil, errors.New(reportDirectoryRequiredMessageConstant)
	}
	resolvedFileSystem := filesystem.Resolve(fileSystem)

	renderers := make([]Renderer, 0, len(formats))
	seenFormats := make(map[Format]struct{}, len(formats))
	for _, format := range formats {
		if _, duplicate := seenFormats[format]; duplicate {
			continue
		}
		seenFormats[format] = struct{}{}
		renderer, rendererError := RendererFor(format)
		if rendererError != nil {
			return nil, rendererError
		}
		renderers = append(renderers, renderer)
	}
	if len(renderers) == 0 {
		return nil, nil
	}

	if mkdirError := resolvedFileSystem.MkdirAll(trimmedDirectory, reportDirectoryPermissionsConstant); mkdirError != nil {
		return nil, fmt.Errorf(reportDirectoryCreateTemplateConstant, trimmedDirectory, mkdirError)
	}

	writtenPaths := make([]string, 0, len(renderers))
	for _, renderer := range renderers {
		var buffer bytes.Buffer
		if renderError := renderer.Render(&buffer, report); renderError != nil {
			return writtenPaths, renderError
		}
		targetPath := filepath.Join(trimmedDirectory, FileName(renderer.Format()))
		if writeError := resolvedFileSystem.WriteFile(targetPath, buffer.Bytes(), reportFilePermissionsConstant); writeError != nil {
			return writtenPaths, fmt.Errorf(reportFileWriteTemplateConstant, targetPath, writeError)
		}
		writtenPaths = append(writtenPaths, targetPath)
	}
	return writtenPaths, nil
}

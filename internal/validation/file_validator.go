package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFile is returned for inputs that are neither workbooks nor CSV files
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrTemporaryFile is returned for spreadsheet lock files such as "~$wtage.xlsx"
	ErrTemporaryFile = errors.New("temporary spreadsheet file")
)

// InputExtensions lists the file types the data loaders can read
var InputExtensions = []string{".xlsx", ".xlsm", ".csv"}

// FileValidator checks input and output paths before a batch run touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With("component", "file_validator"),
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Error("file does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	if err != nil {
		v.logger.Error("failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputFile checks a reference table or subject dataset path
func (v *FileValidator) ValidateInputFile(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("rejecting temporary spreadsheet file", slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrTemporaryFile)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		v.logger.Error("unsupported input file",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("%s (extension %q): %w", path, ext, ErrUnsupportedFile)
	}

	return v.ValidateFile(path)
}

// ValidateOutputDirectory ensures dir exists or can be created, and accepts new files
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that path can be written. A path whose extension does not
// match the export format is allowed but logged.
func (v *FileValidator) ValidateOutputFile(path, format string) error {
	if path == "" {
		return errors.New("output path is required")
	}
	if err := v.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != "" && ext != strings.ToLower(format) {
		v.logger.Warn("output extension does not match format",
			slog.String("file", path),
			slog.String("format", format))
	}
	return nil
}

func supported(ext string) bool {
	for _, e := range InputExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

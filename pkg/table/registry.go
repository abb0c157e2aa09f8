package table

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/seriesflow/pkg/compression"
	"github.com/ajitpratap0/seriesflow/pkg/logger"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// Loader reads a raw table from a file. Compressed inputs are handled by
// the loader through the compression package.
type Loader func(path string) (*Table, error)

// Registry manages table loader registration and format detection.
type Registry struct {
	loaders map[string]Loader
	mu      sync.RWMutex
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new loader registry
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
	}
}

// log resolves the logger at call time. The global registry is built at
// package init, before logger.Init has run, so the logger must not be
// captured during construction.
func (r *Registry) log() *zap.Logger {
	return logger.Get().With(zap.String("component", "table_registry"))
}

// Register registers a loader for a format name (e.g. "csv", "jsonl").
func (r *Registry) Register(format string, loader Loader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[format]; exists {
		return sferrors.Newf(sferrors.ErrorTypeConfig,
			"table loader %q already registered", format)
	}
	r.loaders[format] = loader
	r.log().Debug("table loader registered", zap.String("format", format))
	return nil
}

// Load reads a table, detecting the format from the file extension after
// stripping any compression extension ("data.csv.gz" loads as csv).
func (r *Registry) Load(path string) (*Table, error) {
	return r.LoadAs(DetectFormat(path), path)
}

// LoadAs reads a table using the named format loader.
func (r *Registry) LoadAs(format, path string) (*Table, error) {
	r.mu.RLock()
	loader, exists := r.loaders[format]
	r.mu.RUnlock()

	if !exists {
		return nil, sferrors.Newf(sferrors.ErrorTypeConfig,
			"no table loader for format %q", format).
			WithDetail("path", path)
	}
	return loader(path)
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.loaders))
	for format := range r.loaders {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// DetectFormat returns the format name implied by the file extension,
// ignoring a trailing compression extension.
func DetectFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(compression.TrimExt(path)))
	switch ext {
	case ".ndjson", ".jsonl":
		return "jsonl"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

// Global registry functions

// Register registers a loader in the global registry
func Register(format string, loader Loader) error {
	return globalRegistry.Register(format, loader)
}

// Load reads a table via the global registry, detecting the format
func Load(path string) (*Table, error) {
	return globalRegistry.Load(path)
}

// LoadAs reads a table via the global registry using the named format
func LoadAs(format, path string) (*Table, error) {
	return globalRegistry.LoadAs(format, path)
}

// Formats returns the formats registered in the global registry
func Formats() []string {
	return globalRegistry.Formats()
}

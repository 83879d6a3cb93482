package cookies

import (
	"fmt"
	"os"
	"sync"
)

// Format is one on-disk cookie file layout. Sniff inspects the raw content;
// detection runs in registration order, first match wins.
type Format interface {
	Name() string
	Sniff(data []byte) bool
	Parse(data []byte) ([]Cookie, error)
}

// Registry manages the known cookie file formats
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
	order   []string
}

// NewRegistry creates a new format registry
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format to the registry
func (r *Registry) Register(format Format) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := format.Name()
	if _, exists := r.formats[name]; exists {
		return fmt.Errorf("format %s already registered", name)
	}

	r.formats[name] = format
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a format by name
func (r *Registry) Get(name string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	format, exists := r.formats[name]
	return format, exists
}

// List returns all registered format names in registration order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Detect returns the first registered format whose Sniff accepts the content
func (r *Registry) Detect(data []byte) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if r.formats[name].Sniff(data) {
			return r.formats[name], true
		}
	}
	return nil, false
}

var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.Register(jsonFormat{})
	defaultRegistry.Register(netscapeFormat{})
}

// LoadFile reads a cookie file, detects its format by content and parses it.
func LoadFile(path string) ([]Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading cookie file %s: %w", path, err)
	}

	format, ok := defaultRegistry.Detect(data)
	if !ok {
		return nil, fmt.Errorf("%w: %s is neither a JSON export nor a Netscape cookies.txt", ErrMalformed, path)
	}
	parsed, err := format.Parse(data)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

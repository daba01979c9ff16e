package core

import (
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]FormatDefinition)
	registryMu sync.RWMutex
)

// Register adds a format definition to the registry.
// Panics if a format with the same key is already registered or has no factory.
func Register(def FormatDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := strings.ToLower(def.Info.Key)
	if key == "" || def.New == nil {
		panic(fmt.Sprintf("invalid format definition: %q", def.Info.Key))
	}
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("format already registered: %s", key))
	}

	def.Info.Key = key
	if def.Info.Label == "" {
		def.Info.Label = strings.ToUpper(key)
	}

	registry[key] = def
}

// Get returns a format definition by key (case-insensitive).
// Returns false if not found.
func Get(key string) (FormatDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[strings.ToLower(key)]
	return def, ok
}

// GetByContentType returns the format registered for a MIME type.
// Parameters such as charset are ignored.
func GetByContentType(contentType string) (FormatDefinition, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatDefinition{}, false
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, def := range registry {
		for _, ct := range def.Info.ContentTypes {
			if strings.EqualFold(ct, mediaType) {
				return def, true
			}
		}
	}
	return FormatDefinition{}, false
}

// NewDecoder builds the decoder registered for key, bound to policy.
func NewDecoder(key string, policy *Policy) (Decoder, error) {
	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, key)
	}
	return def.New(policy), nil
}

// All returns all registered format definitions sorted by key.
func All() []FormatDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]FormatDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered formats.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]FormatDefinition)
}

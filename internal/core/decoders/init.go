// Package decoders registers the concrete format decoders with the core registry.
// Import this package to ensure all formats are registered.
package decoders

// Each decoder file uses init() to register its format.

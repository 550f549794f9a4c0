// Package storage defines the file-system abstraction shared by the vault
// (read side) and the publish destination (write side).
package storage

// FileInfo describes one file found by List.
type FileInfo struct {
	// Path is relative to the provider root, slash-separated.
	Path string
	// Checksum is the hex SHA-256 of the file contents, used to skip
	// rewriting unchanged output.
	Checksum string
}

// Provider is the interface for vault and output file operations. All
// paths are relative to the provider root.
type Provider interface {
	// List walks dir and returns every file whose name ends in one of the
	// given extensions (case-insensitive). No extensions means every file.
	List(dir string, exts ...string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating directories as
	// needed.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Exists reports whether path exists under the provider root.
	Exists(path string) bool
}

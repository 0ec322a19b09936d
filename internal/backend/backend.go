// Package backend selects and constructs the persistence layer from
// configuration.
package backend

import (
	"fintrack/internal/storage"
)

// Backend bundles record and account persistence behind one handle.
type Backend interface {
	storage.Store
	storage.UserStore
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result carries a constructed backend and its cleanup hook.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

type Type string

const (
	MemoryBackend Type = "memory"
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what each backend needs to come up.
type Config struct {
	Type Type

	// File backend
	DataDirectory string

	// SQLite backend
	SQLiteDBPath string
}

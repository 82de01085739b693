// Package engine is the embeddable entry point to the database: it wires
// the parser, executor, and storage engine behind a single serialized
// Execute call.
package engine

import (
	"errors"
	"sync"

	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/executor"
	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/parser"
	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/storage"
	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// ErrClosed is returned by operations on a closed database.
var ErrClosed = errors.New("database is closed")

// Database is an open database over one data directory. It is safe for
// concurrent use; statements execute one at a time.
type Database struct {
	mu     sync.Mutex
	store  *storage.Engine
	exec   *executor.Executor
	closed bool
}

// Open loads the database stored in dataDir, creating the directory if
// needed.
func Open(dataDir string) (*Database, error) {
	store, err := storage.Open(dataDir)
	if err != nil {
		return nil, err
	}
	return &Database{store: store, exec: executor.New(store)}, nil
}

// Execute parses and runs a single statement.
func (db *Database) Execute(query string) (*types.ResultSet, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil, ErrClosed
	}
	stmt, err := parser.Parse(query)
	if err != nil {
		return nil, err
	}
	return db.exec.Execute(stmt)
}

// Close marks the database closed. All data is already durable; Close only
// prevents further statements.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	return db.store.Close()
}

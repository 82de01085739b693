// Package server exposes the inventory application over HTTP: REST CRUD
// for categories and products mapped onto database statements. All
// application policy (ID allocation, referential checks, conflict codes)
// lives here; the engine stays generic.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/engine"
	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// Server handles the inventory REST API over one open database.
type Server struct {
	db *engine.Database
}

// New returns a server over the given database. Call EnsureSchema before
// serving.
func New(db *engine.Database) *Server {
	return &Server{db: db}
}

// EnsureSchema creates the categories and products tables when the data
// directory does not have them yet.
func (s *Server) EnsureSchema() error {
	tables := map[string]string{
		"categories": `CREATE TABLE categories (
			id INT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description VARCHAR(500)
		)`,
		"products": `CREATE TABLE products (
			id INT PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			description VARCHAR(1000),
			sku VARCHAR(50) UNIQUE,
			category_id INT,
			price FLOAT,
			quantity INT,
			created_at DATETIME
		)`,
	}
	for name, stmt := range tables {
		if _, err := s.db.Execute(stmt); err != nil {
			var schemaErr *types.SchemaError
			if errors.As(err, &schemaErr) && schemaErr.Kind == types.DuplicateTable {
				continue
			}
			return fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/categories", s.listCategories)
	mux.HandleFunc("POST /api/categories", s.createCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.getCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.updateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.deleteCategory)

	mux.HandleFunc("GET /api/products", s.listProducts)
	mux.HandleFunc("POST /api/products", s.createProduct)
	mux.HandleFunc("GET /api/products/{id}", s.getProduct)
	mux.HandleFunc("PUT /api/products/{id}", s.updateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", s.deleteProduct)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps engine error categories to HTTP statuses.
// Constraint violations are client conflicts; everything else is a server
// fault because the handlers construct the statements themselves.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrConstraint):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses the {id} path segment. A non-numeric id is a 404, matching
// the lookup that would follow.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// escapeText doubles single quotes so user text survives statement
// construction.
func escapeText(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func textLiteral(s string) string { return "'" + escapeText(s) + "'" }

// textOrNull renders an optional text field as a literal, absent as NULL.
func textOrNull(s *string) string {
	if s == nil {
		return "NULL"
	}
	return textLiteral(*s)
}

// nextID allocates max(id)+1 over the table's current rows, as a service
// level concern; the engine itself has no auto-increment.
func (s *Server) nextID(table string) (int64, error) {
	rs, err := s.db.Execute("SELECT id FROM " + table)
	if err != nil {
		return 0, err
	}
	var max int64
	for _, row := range rs.Rows {
		if row[0].Int > max {
			max = row[0].Int
		}
	}
	return max + 1, nil
}

package server

import (
	"fmt"
	"net/http"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// Category is the wire form of one category.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func categoryFromRow(row []types.Value) Category {
	c := Category{ID: row[0].Int, Name: row[1].Text}
	if !row[2].IsNull() {
		d := row[2].Text
		c.Description = &d
	}
	return c
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	rs, err := s.db.Execute(`SELECT id, name, description FROM categories`)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	out := make([]Category, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		out = append(out, categoryFromRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	id, err := s.nextID("categories")
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_, err = s.db.Execute(fmt.Sprintf(
		`INSERT INTO categories (id, name, description) VALUES (%d, %s, %s)`,
		id, textLiteral(req.Name), textOrNull(req.Description)))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Category{ID: id, Name: req.Name, Description: req.Description})
}

func (s *Server) fetchCategory(id int64) (Category, bool, error) {
	rs, err := s.db.Execute(fmt.Sprintf(
		`SELECT id, name, description FROM categories WHERE id = %d`, id))
	if err != nil {
		return Category{}, false, err
	}
	if len(rs.Rows) == 0 {
		return Category{}, false, nil
	}
	return categoryFromRow(rs.Rows[0]), true, nil
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	cat, found, err := s.fetchCategory(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	rs, err := s.db.Execute(fmt.Sprintf(
		`UPDATE categories SET name = %s, description = %s WHERE id = %d`,
		textLiteral(req.Name), textOrNull(req.Description), id))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if rs.Affected == 0 {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, Category{ID: id, Name: req.Name, Description: req.Description})
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	// A category with products cannot be removed.
	inUse, err := s.db.Execute(fmt.Sprintf(
		`SELECT id FROM products WHERE category_id = %d`, id))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if len(inUse.Rows) > 0 {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("category %d still has %d products", id, len(inUse.Rows)))
		return
	}

	rs, err := s.db.Execute(fmt.Sprintf(`DELETE FROM categories WHERE id = %d`, id))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if rs.Affected == 0 {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

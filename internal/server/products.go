package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// Product is the wire form of one product. Optional fields are pointers so
// null columns render as JSON null. CreatedAt is stamped by the server at
// creation and never updated.
type Product struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	SKU          *string  `json:"sku"`
	CategoryID   *int64   `json:"category_id"`
	Price        *float64 `json:"price"`
	Quantity     *int64   `json:"quantity"`
	CreatedAt    *string  `json:"created_at"`
	CategoryName *string  `json:"category_name,omitempty"`
}

// productRequest carries the mutable product fields; absent fields are left
// untouched on update.
type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	SKU         *string  `json:"sku"`
	CategoryID  *int64   `json:"category_id"`
	Price       *float64 `json:"price"`
	Quantity    *int64   `json:"quantity"`
}

const productColumns = "id, name, description, sku, category_id, price, quantity, created_at"

func productFromRow(row []types.Value) Product {
	p := Product{ID: row[0].Int, Name: row[1].Text}
	if !row[2].IsNull() {
		d := row[2].Text
		p.Description = &d
	}
	if !row[3].IsNull() {
		sku := row[3].Text
		p.SKU = &sku
	}
	if !row[4].IsNull() {
		cid := row[4].Int
		p.CategoryID = &cid
	}
	if !row[5].IsNull() {
		price := row[5].Float
		p.Price = &price
	}
	if !row[6].IsNull() {
		qty := row[6].Int
		p.Quantity = &qty
	}
	if !row[7].IsNull() {
		at := row[7].Time.Format(types.DateTimeLayout)
		p.CreatedAt = &at
	}
	return p
}

// floatLiteral renders a float in the plain decimal form the grammar
// accepts; exponent notation never appears.
func floatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	rs, err := s.db.Execute("SELECT " + productColumns + " FROM products")
	if err != nil {
		writeEngineError(w, err)
		return
	}
	out := make([]Product, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		out = append(out, productFromRow(row))
	}

	if r.URL.Query().Get("include_category") == "true" {
		names, err := s.categoryNamesByProduct()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		for i := range out {
			if name, ok := names[out[i].ID]; ok {
				out[i].CategoryName = &name
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// categoryNamesByProduct resolves each categorized product to its category
// name through the engine's join.
func (s *Server) categoryNamesByProduct() (map[int64]string, error) {
	rs, err := s.db.Execute(`SELECT products.id, categories.name FROM products
		JOIN categories ON products.category_id = categories.id`)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(rs.Rows))
	for _, row := range rs.Rows {
		names[row[0].Int] = row[1].Text
	}
	return names, nil
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.CategoryID != nil {
		if ok, err := s.categoryExists(w, *req.CategoryID); err != nil || !ok {
			return
		}
	}

	id, err := s.nextID("products")
	if err != nil {
		writeEngineError(w, err)
		return
	}

	columns := []string{"id", "name", "created_at"}
	values := []string{
		strconv.FormatInt(id, 10),
		textLiteral(*req.Name),
		textLiteral(time.Now().UTC().Format(types.DateTimeLayout)),
	}
	if req.Description != nil {
		columns = append(columns, "description")
		values = append(values, textLiteral(*req.Description))
	}
	if req.SKU != nil {
		columns = append(columns, "sku")
		values = append(values, textLiteral(*req.SKU))
	}
	if req.CategoryID != nil {
		columns = append(columns, "category_id")
		values = append(values, strconv.FormatInt(*req.CategoryID, 10))
	}
	if req.Price != nil {
		columns = append(columns, "price")
		values = append(values, floatLiteral(*req.Price))
	}
	if req.Quantity != nil {
		columns = append(columns, "quantity")
		values = append(values, strconv.FormatInt(*req.Quantity, 10))
	}

	_, err = s.db.Execute(fmt.Sprintf(`INSERT INTO products (%s) VALUES (%s)`,
		strings.Join(columns, ", "), strings.Join(values, ", ")))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	created, _, err := s.fetchProduct(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// categoryExists writes the response on failure and reports whether the
// handler may continue.
func (s *Server) categoryExists(w http.ResponseWriter, id int64) (bool, error) {
	_, found, err := s.fetchCategory(id)
	if err != nil {
		writeEngineError(w, err)
		return false, err
	}
	if !found {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("category %d does not exist", id))
		return false, nil
	}
	return true, nil
}

func (s *Server) fetchProduct(id int64) (Product, bool, error) {
	rs, err := s.db.Execute(fmt.Sprintf(
		"SELECT %s FROM products WHERE id = %d", productColumns, id))
	if err != nil {
		return Product{}, false, err
	}
	if len(rs.Rows) == 0 {
		return Product{}, false, nil
	}
	return productFromRow(rs.Rows[0]), true, nil
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	p, found, err := s.fetchProduct(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CategoryID != nil {
		if ok, err := s.categoryExists(w, *req.CategoryID); err != nil || !ok {
			return
		}
	}

	var set []string
	if req.Name != nil {
		if *req.Name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		set = append(set, "name = "+textLiteral(*req.Name))
	}
	if req.Description != nil {
		set = append(set, "description = "+textLiteral(*req.Description))
	}
	if req.SKU != nil {
		set = append(set, "sku = "+textLiteral(*req.SKU))
	}
	if req.CategoryID != nil {
		set = append(set, "category_id = "+strconv.FormatInt(*req.CategoryID, 10))
	}
	if req.Price != nil {
		set = append(set, "price = "+floatLiteral(*req.Price))
	}
	if req.Quantity != nil {
		set = append(set, "quantity = "+strconv.FormatInt(*req.Quantity, 10))
	}
	if len(set) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	rs, err := s.db.Execute(fmt.Sprintf(`UPDATE products SET %s WHERE id = %d`,
		strings.Join(set, ", "), id))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if rs.Affected == 0 {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	updated, _, err := s.fetchProduct(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	rs, err := s.db.Execute(fmt.Sprintf(`DELETE FROM products WHERE id = %d`, id))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if rs.Affected == 0 {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package storage

import (
	"errors"
	"slices"
	"testing"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

func productsSchema() []types.Column {
	return []types.Column{
		{Name: "id", Type: types.DataType{Name: types.TypeInt}, PrimaryKey: true, NotNull: true},
		{Name: "name", Type: types.DataType{Name: types.TypeVarChar, Length: 100}, NotNull: true},
		{Name: "sku", Type: types.DataType{Name: types.TypeVarChar, Length: 20}, Unique: true},
		{Name: "price", Type: types.DataType{Name: types.TypeFloat}},
	}
}

func openEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return e
}

func mustInsert(t *testing.T, e *Engine, table string, values ...types.Value) types.Row {
	t.Helper()
	row, err := e.InsertRow(table, values)
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	return row
}

// scanRows collects a scan into a slice for assertions.
func scanRows(t *testing.T, e *Engine, table string, where *types.Predicate) []types.Row {
	t.Helper()
	scan, err := e.Scan(table, where)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return slices.Collect(scan)
}

func seedProducts(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.CreateTable("products", productsSchema()); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	mustInsert(t, e, "products",
		types.NewInteger(1), types.NewText("Laptop"), types.NewText("LP-1"), types.NewFloat(999.99))
	mustInsert(t, e, "products",
		types.NewInteger(2), types.NewText("Mouse"), types.NewText("MS-1"), types.NewFloat(24.50))
	mustInsert(t, e, "products",
		types.NewInteger(3), types.NewText("Desk"), types.Null(), types.Null())
}

func TestCreateTable(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		e := openEngine(t)
		if err := e.CreateTable("products", productsSchema()); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		err := e.CreateTable("products", productsSchema())
		if !errors.Is(err, types.ErrSchema) {
			t.Fatalf("got %v, want schema error", err)
		}
		var schemaErr *types.SchemaError
		if !errors.As(err, &schemaErr) || schemaErr.Kind != types.DuplicateTable {
			t.Errorf("got %+v, want duplicate table", err)
		}
	})

	t.Run("invalid schemas", func(t *testing.T) {
		e := openEngine(t)
		intCol := types.DataType{Name: types.TypeInt}
		cases := map[string][]types.Column{
			"no columns": nil,
			"duplicate column": {
				{Name: "x", Type: intCol},
				{Name: "x", Type: intCol},
			},
			"varchar without length": {
				{Name: "x", Type: types.DataType{Name: types.TypeVarChar}},
			},
			"two primary keys": {
				{Name: "a", Type: intCol, PrimaryKey: true},
				{Name: "b", Type: intCol, PrimaryKey: true},
			},
		}
		for name, columns := range cases {
			err := e.CreateTable("t_"+name, columns)
			var schemaErr *types.SchemaError
			if !errors.As(err, &schemaErr) || schemaErr.Kind != types.InvalidSchema {
				t.Errorf("%s: got %v, want invalid schema", name, err)
			}
		}
	})

	t.Run("catalog listing is sorted", func(t *testing.T) {
		e := openEngine(t)
		for _, name := range []string{"zebra", "alpha", "mid"} {
			if err := e.CreateTable(name, productsSchema()); err != nil {
				t.Fatalf("CreateTable %s: %v", name, err)
			}
		}
		names := e.TableNames()
		if len(names) != 3 || names[0] != "alpha" || names[1] != "mid" || names[2] != "zebra" {
			t.Errorf("TableNames: %v", names)
		}
	})
}

func TestInsertRow(t *testing.T) {
	t.Run("assigns distinct row identifiers", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		rows := scanRows(t, e, "products", nil)
		ids := make(map[string]bool)
		for _, r := range rows {
			if r.ID == "" || ids[r.ID] {
				t.Errorf("row id %q empty or repeated", r.ID)
			}
			ids[r.ID] = true
		}
	})

	t.Run("integer widens into a float column", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		mustInsert(t, e, "products",
			types.NewInteger(4), types.NewText("Cable"), types.Null(), types.NewInteger(5))
		rows := scanRows(t, e, "products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(4),
		})
		if len(rows) != 1 {
			t.Fatalf("got %d rows", len(rows))
		}
		price := rows[0].Values[3]
		if price.Kind != types.KindFloat || price.Float != 5 {
			t.Errorf("price stored as %v, want FLOAT 5", price)
		}
	})

	t.Run("unknown table", func(t *testing.T) {
		e := openEngine(t)
		_, err := e.InsertRow("nothing", []types.Value{types.NewInteger(1)})
		var schemaErr *types.SchemaError
		if !errors.As(err, &schemaErr) || schemaErr.Kind != types.UnknownTable {
			t.Fatalf("got %v, want unknown table", err)
		}
	})

	t.Run("value count mismatch", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.InsertRow("products", []types.Value{types.NewInteger(9)})
		if !errors.Is(err, types.ErrSchema) {
			t.Fatalf("got %v, want schema error", err)
		}
	})

	t.Run("type mismatch leaves the table untouched", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.InsertRow("products", []types.Value{
			types.NewText("nine"), types.NewText("X"), types.Null(), types.Null(),
		})
		if !errors.Is(err, types.ErrTypeMismatch) {
			t.Fatalf("got %v, want type mismatch", err)
		}
		rows := scanRows(t, e, "products", nil)
		if len(rows) != 3 {
			t.Errorf("got %d rows after failed insert, want 3", len(rows))
		}
	})

	t.Run("varchar over length", func(t *testing.T) {
		e := openEngine(t)
		if err := e.CreateTable("t", []types.Column{
			{Name: "code", Type: types.DataType{Name: types.TypeVarChar, Length: 3}},
		}); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		_, err := e.InsertRow("t", []types.Value{types.NewText("toolong")})
		if !errors.Is(err, types.ErrTypeMismatch) {
			t.Fatalf("got %v, want type mismatch", err)
		}
	})

	t.Run("not null violation", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.InsertRow("products", []types.Value{
			types.NewInteger(9), types.Null(), types.Null(), types.Null(),
		})
		var cv *types.ConstraintViolation
		if !errors.As(err, &cv) || cv.Kind != types.NotNullViolation || cv.Column != "name" {
			t.Fatalf("got %v, want not null violation on name", err)
		}
	})

	t.Run("duplicate primary key", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.InsertRow("products", []types.Value{
			types.NewInteger(1), types.NewText("Clone"), types.Null(), types.Null(),
		})
		var cv *types.ConstraintViolation
		if !errors.As(err, &cv) || cv.Kind != types.PrimaryKeyDuplicate {
			t.Fatalf("got %v, want primary key duplicate", err)
		}
		if !errors.Is(err, types.ErrConstraint) {
			t.Errorf("violation should unwrap to the constraint category")
		}
	})

	t.Run("duplicate unique value", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.InsertRow("products", []types.Value{
			types.NewInteger(9), types.NewText("Copy"), types.NewText("LP-1"), types.Null(),
		})
		var cv *types.ConstraintViolation
		if !errors.As(err, &cv) || cv.Kind != types.UniqueDuplicate || cv.Column != "sku" {
			t.Fatalf("got %v, want unique duplicate on sku", err)
		}
	})

	t.Run("adjacent large primary keys stay distinct", func(t *testing.T) {
		e := openEngine(t)
		if err := e.CreateTable("counters", []types.Column{
			{Name: "id", Type: types.DataType{Name: types.TypeInt}, PrimaryKey: true, NotNull: true},
		}); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		// Both values round to the same float64; the index must not conflate them.
		mustInsert(t, e, "counters", types.NewInteger(9007199254740992))
		mustInsert(t, e, "counters", types.NewInteger(9007199254740993))
		rows := scanRows(t, e, "counters", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(9007199254740993),
		})
		if len(rows) != 1 || rows[0].Values[0].Int != 9007199254740993 {
			t.Errorf("rows %v", rows)
		}
	})

	t.Run("null is allowed repeatedly in a unique column", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		mustInsert(t, e, "products",
			types.NewInteger(4), types.NewText("Lamp"), types.Null(), types.Null())
		rows := scanRows(t, e, "products", nil)
		if len(rows) != 4 {
			t.Errorf("got %d rows, want 4", len(rows))
		}
	})
}

func TestScan(t *testing.T) {
	t.Run("insertion order without predicate", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		rows := scanRows(t, e, "products", nil)
		var names []string
		for _, r := range rows {
			names = append(names, r.Values[1].Text)
		}
		if len(names) != 3 || names[0] != "Laptop" || names[1] != "Mouse" || names[2] != "Desk" {
			t.Errorf("order %v", names)
		}
	})

	t.Run("indexed equality uses the primary key index", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		rows := scanRows(t, e, "products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(2),
		})
		if len(rows) != 1 || rows[0].Values[1].Text != "Mouse" {
			t.Errorf("rows %v", rows)
		}
	})

	t.Run("ordering comparison on an unindexed column", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		rows := scanRows(t, e, "products", &types.Predicate{
			Column: "price", Op: types.OpLt, Value: types.NewInteger(100),
		})
		// Desk has a null price; ordering never matches null.
		if len(rows) != 1 || rows[0].Values[1].Text != "Mouse" {
			t.Errorf("rows %v", rows)
		}
	})

	t.Run("equality against null matches only null", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		rows := scanRows(t, e, "products", &types.Predicate{
			Column: "price", Op: types.OpEq, Value: types.Null(),
		})
		if len(rows) != 1 || rows[0].Values[1].Text != "Desk" {
			t.Errorf("rows %v", rows)
		}
	})

	t.Run("unknown column in predicate", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.Scan("products", &types.Predicate{
			Column: "weight", Op: types.OpEq, Value: types.NewInteger(1),
		})
		var schemaErr *types.SchemaError
		if !errors.As(err, &schemaErr) || schemaErr.Kind != types.UnknownColumn {
			t.Fatalf("got %v, want unknown column", err)
		}
	})

	t.Run("incompatible predicate literal", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.Scan("products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewText("one"),
		})
		if !errors.Is(err, types.ErrTypeMismatch) {
			t.Fatalf("got %v, want type mismatch", err)
		}
	})

	t.Run("returned rows are clones", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		rows := scanRows(t, e, "products", nil)
		rows[0].Values[1] = types.NewText("Tampered")
		again := scanRows(t, e, "products", nil)
		if again[0].Values[1].Text != "Laptop" {
			t.Error("mutating a scanned row leaked into the table")
		}
	})

	t.Run("sequence restarts and stops early", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		scan, err := e.Scan("products", nil)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		var first int
		for range scan {
			first++
			break
		}
		if first != 1 {
			t.Fatalf("early break yielded %d rows", first)
		}
		// A second pass over the same sequence starts from the top.
		var names []string
		for row := range scan {
			names = append(names, row.Values[1].Text)
		}
		if len(names) != 3 || names[0] != "Laptop" {
			t.Errorf("restarted pass saw %v", names)
		}
	})
}

func TestUpdateRows(t *testing.T) {
	t.Run("updates matching rows atomically", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		n, err := e.UpdateRows("products",
			[]Assignment{{Column: "price", Value: types.NewFloat(10)}},
			&types.Predicate{Column: "price", Op: types.OpGt, Value: types.NewInteger(20)})
		if err != nil {
			t.Fatalf("UpdateRows: %v", err)
		}
		if n != 2 {
			t.Fatalf("affected %d, want 2", n)
		}
		rows := scanRows(t, e, "products", nil)
		for _, r := range rows[:2] {
			if r.Values[3].Float != 10 {
				t.Errorf("row %s price %v", r.Values[1].Text, r.Values[3])
			}
		}
	})

	t.Run("no where updates every row", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		n, err := e.UpdateRows("products",
			[]Assignment{{Column: "price", Value: types.NewFloat(1)}}, nil)
		if err != nil {
			t.Fatalf("UpdateRows: %v", err)
		}
		if n != 3 {
			t.Errorf("affected %d, want 3", n)
		}
	})

	t.Run("zero matches is not an error", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		n, err := e.UpdateRows("products",
			[]Assignment{{Column: "price", Value: types.NewFloat(1)}},
			&types.Predicate{Column: "id", Op: types.OpEq, Value: types.NewInteger(99)})
		if err != nil || n != 0 {
			t.Fatalf("got n=%d err=%v, want 0 and nil", n, err)
		}
	})

	t.Run("one unique value fanned out to two rows fails", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		n, err := e.UpdateRows("products",
			[]Assignment{{Column: "sku", Value: types.NewText("TMP")}},
			&types.Predicate{Column: "id", Op: types.OpLe, Value: types.NewInteger(2)})
		if err == nil {
			t.Fatalf("assigning one sku to two rows should violate uniqueness, affected %d", n)
		}
		var cv *types.ConstraintViolation
		if !errors.As(err, &cv) || cv.Kind != types.UniqueDuplicate {
			t.Fatalf("got %v, want unique duplicate", err)
		}
	})

	t.Run("duplicate against an untouched row rolls back", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.UpdateRows("products",
			[]Assignment{{Column: "id", Value: types.NewInteger(2)}},
			&types.Predicate{Column: "id", Op: types.OpEq, Value: types.NewInteger(1)})
		var cv *types.ConstraintViolation
		if !errors.As(err, &cv) || cv.Kind != types.PrimaryKeyDuplicate {
			t.Fatalf("got %v, want primary key duplicate", err)
		}
		rows := scanRows(t, e, "products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(1),
		})
		if len(rows) != 1 || rows[0].Values[1].Text != "Laptop" {
			t.Error("failed update mutated the table")
		}
	})

	t.Run("index follows an updated key", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		if _, err := e.UpdateRows("products",
			[]Assignment{{Column: "id", Value: types.NewInteger(42)}},
			&types.Predicate{Column: "id", Op: types.OpEq, Value: types.NewInteger(2)}); err != nil {
			t.Fatalf("UpdateRows: %v", err)
		}
		rows := scanRows(t, e, "products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(42),
		})
		if len(rows) != 1 || rows[0].Values[1].Text != "Mouse" {
			t.Errorf("rows %v", rows)
		}
		old := scanRows(t, e, "products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(2),
		})
		if len(old) != 0 {
			t.Errorf("stale index entry still resolves: %v", old)
		}
	})

	t.Run("assigning null to a not null column", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		_, err := e.UpdateRows("products",
			[]Assignment{{Column: "name", Value: types.Null()}}, nil)
		var cv *types.ConstraintViolation
		if !errors.As(err, &cv) || cv.Kind != types.NotNullViolation {
			t.Fatalf("got %v, want not null violation", err)
		}
	})
}

func TestDeleteRows(t *testing.T) {
	t.Run("with predicate", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		n, err := e.DeleteRows("products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(2),
		})
		if err != nil || n != 1 {
			t.Fatalf("got n=%d err=%v", n, err)
		}
		rows := scanRows(t, e, "products", nil)
		if len(rows) != 2 || rows[0].Values[1].Text != "Laptop" || rows[1].Values[1].Text != "Desk" {
			t.Errorf("remaining %v", rows)
		}
	})

	t.Run("without predicate clears the table but keeps the schema", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		n, err := e.DeleteRows("products", nil)
		if err != nil || n != 3 {
			t.Fatalf("got n=%d err=%v", n, err)
		}
		rows := scanRows(t, e, "products", nil)
		if len(rows) != 0 {
			t.Errorf("rows remain: %v", rows)
		}
		if _, err := e.Schema("products"); err != nil {
			t.Errorf("schema should survive: %v", err)
		}
	})

	t.Run("deleted key can be inserted again", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		if _, err := e.DeleteRows("products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(1),
		}); err != nil {
			t.Fatalf("DeleteRows: %v", err)
		}
		mustInsert(t, e, "products",
			types.NewInteger(1), types.NewText("Laptop v2"), types.Null(), types.Null())
	})
}

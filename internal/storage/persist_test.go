package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

func TestPersistence(t *testing.T) {
	t.Run("reopen restores rows, kinds, and indexes", func(t *testing.T) {
		dir := t.TempDir()
		e, err := Open(dir)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if err := e.CreateTable("events", []types.Column{
			{Name: "id", Type: types.DataType{Name: types.TypeInt}, PrimaryKey: true, NotNull: true},
			{Name: "label", Type: types.DataType{Name: types.TypeVarChar, Length: 50}},
			{Name: "weight", Type: types.DataType{Name: types.TypeFloat}},
			{Name: "done", Type: types.DataType{Name: types.TypeBoolean}},
			{Name: "at", Type: types.DataType{Name: types.TypeDateTime}},
		}); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		when := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
		inserted, err := e.InsertRow("events", []types.Value{
			types.NewInteger(1),
			types.NewText("first"),
			types.NewFloat(2.5),
			types.NewBoolean(true),
			types.NewDateTime(when),
		})
		if err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
		if _, err := e.InsertRow("events", []types.Value{
			types.NewInteger(2), types.Null(), types.Null(), types.Null(), types.Null(),
		}); err != nil {
			t.Fatalf("InsertRow: %v", err)
		}

		reopened, err := Open(dir)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		rows := scanRows(t, reopened, "events", nil)
		if len(rows) != 2 {
			t.Fatalf("got %d rows", len(rows))
		}
		got := rows[0]
		if got.ID != inserted.ID {
			t.Errorf("row id %q, want %q", got.ID, inserted.ID)
		}
		wantKinds := []types.Kind{
			types.KindInteger, types.KindText, types.KindFloat, types.KindBoolean, types.KindDateTime,
		}
		for i, k := range wantKinds {
			if got.Values[i].Kind != k {
				t.Errorf("value %d decoded as %v, want %v", i, got.Values[i].Kind, k)
			}
		}
		if !got.Values[4].Time.Equal(when) {
			t.Errorf("datetime %v, want %v", got.Values[4].Time, when)
		}
		for i, v := range rows[1].Values[1:] {
			if !v.IsNull() {
				t.Errorf("null value %d decoded as %v", i+1, v)
			}
		}

		// Index is rebuilt, not persisted: equality lookup still works.
		hit := scanRows(t, reopened, "events", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(2),
		})
		if len(hit) != 1 {
			t.Errorf("index lookup after reopen: rows %v", hit)
		}
	})

	t.Run("large integers survive a reopen exactly", func(t *testing.T) {
		dir := t.TempDir()
		e, err := Open(dir)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if err := e.CreateTable("counters", []types.Column{
			{Name: "id", Type: types.DataType{Name: types.TypeInt}, PrimaryKey: true, NotNull: true},
		}); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		// 2^53 + 1 is not representable in float64.
		if _, err := e.InsertRow("counters", []types.Value{types.NewInteger(9007199254740993)}); err != nil {
			t.Fatalf("InsertRow: %v", err)
		}

		reopened, err := Open(dir)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		rows := scanRows(t, reopened, "counters", nil)
		if len(rows) != 1 || rows[0].Values[0].Int != 9007199254740993 {
			t.Errorf("rows %v", rows)
		}
	})

	t.Run("no temp files are left behind", func(t *testing.T) {
		dir := t.TempDir()
		e, _ := Open(dir)
		if err := e.CreateTable("t", []types.Column{
			{Name: "x", Type: types.DataType{Name: types.TypeInt}},
		}); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		for i := 0; i < 5; i++ {
			if _, err := e.InsertRow("t", []types.Value{types.NewInteger(int64(i))}); err != nil {
				t.Fatalf("InsertRow: %v", err)
			}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir: %v", err)
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), ".tmp") {
				t.Errorf("leftover temp file %s", entry.Name())
			}
		}
	})

	t.Run("table file is readable json with natural values", func(t *testing.T) {
		dir := t.TempDir()
		e, _ := Open(dir)
		if err := e.CreateTable("t", []types.Column{
			{Name: "n", Type: types.DataType{Name: types.TypeInt}},
			{Name: "s", Type: types.DataType{Name: types.TypeVarChar, Length: 10}},
		}); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
		if _, err := e.InsertRow("t", []types.Value{types.NewInteger(7), types.NewText("hi")}); err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "t.json"))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		var doc struct {
			FormatVersion int `json:"format_version"`
			Rows          []struct {
				ID     string `json:"id"`
				Values []any  `json:"values"`
			} `json:"rows"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if doc.FormatVersion != 1 {
			t.Errorf("format_version %d", doc.FormatVersion)
		}
		if len(doc.Rows) != 1 || doc.Rows[0].Values[0] != float64(7) || doc.Rows[0].Values[1] != "hi" {
			t.Errorf("rows %+v", doc.Rows)
		}
	})

	t.Run("corrupt table file fails to open", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		_, err := Open(dir)
		if !errors.Is(err, types.ErrStorageIO) {
			t.Fatalf("got %v, want storage i/o error", err)
		}
	})

	t.Run("unsupported format version fails to open", func(t *testing.T) {
		dir := t.TempDir()
		doc := `{"format_version": 99, "name": "t", "columns": [], "rows": []}`
		if err := os.WriteFile(filepath.Join(dir, "t.json"), []byte(doc), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		_, err := Open(dir)
		if !errors.Is(err, types.ErrStorageIO) {
			t.Fatalf("got %v, want storage i/o error", err)
		}
	})

	t.Run("non-table files in the data directory are ignored", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Open(dir); err != nil {
			t.Fatalf("Open: %v", err)
		}
	})
}

func TestFlushFailureRollsBack(t *testing.T) {
	failWrites := func(t *testing.T) {
		t.Helper()
		orig := atomicWrite
		atomicWrite = func(path string, data []byte) error {
			return errors.New("disk full")
		}
		t.Cleanup(func() { atomicWrite = orig })
	}

	t.Run("insert", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		failWrites(t)
		_, err := e.InsertRow("products", []types.Value{
			types.NewInteger(9), types.NewText("Ghost"), types.Null(), types.Null(),
		})
		if !errors.Is(err, types.ErrStorageIO) {
			t.Fatalf("got %v, want storage i/o error", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		failWrites(t)
		_, err := e.UpdateRows("products",
			[]Assignment{{Column: "name", Value: types.NewText("Ghost")}}, nil)
		if !errors.Is(err, types.ErrStorageIO) {
			t.Fatalf("got %v, want storage i/o error", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		failWrites(t)
		if _, err := e.DeleteRows("products", nil); !errors.Is(err, types.ErrStorageIO) {
			t.Fatalf("got %v, want storage i/o error", err)
		}
	})

	t.Run("memory state is unchanged after any failure", func(t *testing.T) {
		e := openEngine(t)
		seedProducts(t, e)
		failWrites(t)
		e.InsertRow("products", []types.Value{
			types.NewInteger(9), types.NewText("Ghost"), types.Null(), types.Null(),
		})
		e.UpdateRows("products", []Assignment{{Column: "name", Value: types.NewText("Ghost")}}, nil)
		e.DeleteRows("products", nil)

		rows := scanRows(t, e, "products", nil)
		if len(rows) != 3 || rows[0].Values[1].Text != "Laptop" {
			t.Errorf("table mutated despite flush failures: %v", rows)
		}
		hit := scanRows(t, e, "products", &types.Predicate{
			Column: "id", Op: types.OpEq, Value: types.NewInteger(9),
		})
		if len(hit) != 0 {
			t.Errorf("phantom row visible through index: %v", hit)
		}
	})
}

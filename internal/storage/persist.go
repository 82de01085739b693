// This file provides the on-disk table format and atomic persistence. Each
// table lives in its own JSON file under the data directory, written with
// the temp-file, fsync, rename pattern so a crash never leaves a partial
// file behind.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// formatVersion is bumped when the table file layout changes incompatibly.
const formatVersion = 1

// tableFile is the persisted form of one table. Cell values are stored as
// natural JSON (numbers, strings, booleans, null) and decoded back through
// the schema, keeping the files readable by hand.
type tableFile struct {
	FormatVersion int            `json:"format_version"`
	Name          string         `json:"name"`
	Columns       []columnRecord `json:"columns"`
	Rows          []rowRecord    `json:"rows"`
}

type columnRecord struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Length     int    `json:"length,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Unique     bool   `json:"unique,omitempty"`
	NotNull    bool   `json:"not_null,omitempty"`
}

type rowRecord struct {
	ID     string `json:"id"`
	Values []any  `json:"values"`
}

// atomicWrite is swappable so tests can inject persistence failures.
var atomicWrite = writeFileAtomic

// writeFileAtomic writes data to path via a temp file in the same
// directory, syncing before the rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing table file: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// encodeTableFile renders a table with the given row list. The row list is
// passed separately so callers can persist a proposed state before
// committing it in memory.
func encodeTableFile(name string, columns []types.Column, rows []types.Row) ([]byte, error) {
	tf := tableFile{
		FormatVersion: formatVersion,
		Name:          name,
		Columns:       make([]columnRecord, len(columns)),
		Rows:          make([]rowRecord, 0, len(rows)),
	}
	for i, c := range columns {
		tf.Columns[i] = columnRecord{
			Name:       c.Name,
			Type:       string(c.Type.Name),
			Length:     c.Type.Length,
			PrimaryKey: c.PrimaryKey,
			Unique:     c.Unique,
			NotNull:    c.NotNull,
		}
	}
	for _, row := range rows {
		rec := rowRecord{ID: row.ID, Values: make([]any, len(row.Values))}
		for i, v := range row.Values {
			rec.Values[i] = encodeValue(v)
		}
		tf.Rows = append(tf.Rows, rec)
	}
	return json.MarshalIndent(tf, "", "  ")
}

func encodeValue(v types.Value) any {
	switch v.Kind {
	case types.KindInteger:
		return v.Int
	case types.KindFloat:
		return v.Float
	case types.KindText:
		return v.Text
	case types.KindBoolean:
		return v.Bool
	case types.KindDateTime:
		return v.Time.Format(types.DateTimeLayout)
	default:
		return nil
	}
}

// readTableFile loads and decodes one table file. Cell values are decoded
// through the schema so that integers, floats, and timestamps come back as
// the kinds the columns declare.
func readTableFile(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.StorageIOError{Path: path, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tf tableFile
	if err := dec.Decode(&tf); err != nil {
		return nil, &types.StorageIOError{Path: path, Err: fmt.Errorf("decoding table file: %w", err)}
	}
	if tf.FormatVersion != formatVersion {
		return nil, &types.StorageIOError{
			Path: path,
			Err:  fmt.Errorf("unsupported format version %d", tf.FormatVersion),
		}
	}

	columns := make([]types.Column, len(tf.Columns))
	for i, cr := range tf.Columns {
		columns[i] = types.Column{
			Name:       cr.Name,
			Type:       types.DataType{Name: types.TypeName(cr.Type), Length: cr.Length},
			PrimaryKey: cr.PrimaryKey,
			Unique:     cr.Unique,
			NotNull:    cr.NotNull,
		}
		if !columns[i].Type.Valid() {
			return nil, &types.StorageIOError{
				Path: path,
				Err:  fmt.Errorf("column %q has invalid type %q", cr.Name, cr.Type),
			}
		}
	}

	rows := make([]types.Row, 0, len(tf.Rows))
	for _, rec := range tf.Rows {
		if len(rec.Values) != len(columns) {
			return nil, &types.StorageIOError{
				Path: path,
				Err:  fmt.Errorf("row %s has %d values, schema has %d columns", rec.ID, len(rec.Values), len(columns)),
			}
		}
		row := types.Row{ID: rec.ID, Values: make([]types.Value, len(rec.Values))}
		for i, raw := range rec.Values {
			v, err := decodeValue(columns[i], raw)
			if err != nil {
				return nil, &types.StorageIOError{Path: path, Err: err}
			}
			row.Values[i] = v
		}
		rows = append(rows, row)
	}

	t := &table{name: tf.Name, columns: columns, rows: rows}
	t.rebuild()
	return t, nil
}

func decodeValue(col types.Column, raw any) (types.Value, error) {
	if raw == nil {
		return types.Null(), nil
	}
	switch col.Type.Name {
	case types.TypeInt:
		if n, ok := raw.(json.Number); ok {
			i, err := n.Int64()
			if err == nil {
				return types.NewInteger(i), nil
			}
		}
	case types.TypeFloat:
		if n, ok := raw.(json.Number); ok {
			f, err := n.Float64()
			if err == nil {
				return types.NewFloat(f), nil
			}
		}
	case types.TypeVarChar:
		if s, ok := raw.(string); ok {
			return types.NewText(s), nil
		}
	case types.TypeBoolean:
		if b, ok := raw.(bool); ok {
			return types.NewBoolean(b), nil
		}
	case types.TypeDateTime:
		if s, ok := raw.(string); ok {
			t, err := types.ParseDateTime(s)
			if err == nil {
				return types.NewDateTime(t), nil
			}
		}
	}
	return types.Value{}, fmt.Errorf("column %q: cannot decode %v as %s", col.Name, raw, col.Type)
}

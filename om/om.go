// Package om implements the ObjectManager: CRUD persistence driven by
// MetaObject descriptors. Tables and columns come from the dbTable and
// dbColumn attributes, and row identity comes from the object's resolved
// primary key field. The package is a consumer of the metadata graph; it
// never mutates it.
package om

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

// ObjectManager executes descriptor-driven SQL against a database/sql
// handle.
type ObjectManager struct {
	db  *sql.DB
	log *zap.Logger
}

// New creates an ObjectManager. A nil logger defaults to no-op.
func New(db *sql.DB, log *zap.Logger) *ObjectManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &ObjectManager{db: db, log: log}
}

// TableName returns the object's SQL table: the dbTable attribute, or
// the lower-cased short name when unset.
func TableName(obj metadata.MetaObject) string {
	if v, ok := obj.AttrValue(metadata.AttrNameDBTable); ok && v != "" {
		return v
	}
	return strings.ToLower(obj.ShortName())
}

// Create inserts one record. Only fields present in the record map are
// written.
func (m *ObjectManager) Create(ctx context.Context, obj metadata.MetaObject, record map[string]any) error {
	var (
		cols         []string
		placeholders []string
		args         []any
	)
	for _, f := range obj.Fields() {
		v, ok := record[f.ShortName()]
		if !ok {
			continue
		}
		cols = append(cols, pq.QuoteIdentifier(f.DBColumn()))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, v)
	}
	if len(cols) == 0 {
		return fmt.Errorf("create %s: record has no mapped fields", obj.QualifiedName())
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(TableName(obj)),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "))

	m.log.Debug("om create", zap.String("object", obj.QualifiedName()), zap.String("query", query))
	_, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create %s: %w", obj.QualifiedName(), err)
	}
	return nil
}

// Read fetches the record with the given primary key value, returning
// field-name-keyed values.
func (m *ObjectManager) Read(ctx context.Context, obj metadata.MetaObject, keyValue any) (map[string]any, error) {
	key, err := obj.PrimaryKeyField()
	if err != nil {
		return nil, err
	}

	fields := obj.Fields()
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, pq.QuoteIdentifier(f.DBColumn()))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(cols, ", "),
		pq.QuoteIdentifier(TableName(obj)),
		pq.QuoteIdentifier(key.DBColumn()))

	m.log.Debug("om read", zap.String("object", obj.QualifiedName()), zap.String("query", query))
	row := m.db.QueryRowContext(ctx, query, keyValue)

	values := make([]any, len(fields))
	ptrs := make([]any, len(fields))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := row.Scan(ptrs...); err != nil {
		if err == sql.ErrNoRows {
			return nil, metadata.ErrNotFound("no %s row with %s = %v", obj.QualifiedName(), key.ShortName(), keyValue)
		}
		return nil, fmt.Errorf("read %s: %w", obj.QualifiedName(), err)
	}

	record := make(map[string]any, len(fields))
	for i, f := range fields {
		record[f.ShortName()] = values[i]
	}
	return record, nil
}

// Update rewrites the non-key fields present in the record, locating the
// row by the record's primary key value.
func (m *ObjectManager) Update(ctx context.Context, obj metadata.MetaObject, record map[string]any) error {
	key, err := obj.PrimaryKeyField()
	if err != nil {
		return err
	}
	keyValue, ok := record[key.ShortName()]
	if !ok {
		return fmt.Errorf("update %s: record is missing key field %q", obj.QualifiedName(), key.ShortName())
	}

	var (
		sets []string
		args []any
	)
	for _, f := range obj.Fields() {
		if f.ShortName() == key.ShortName() {
			continue
		}
		v, ok := record[f.ShortName()]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(f.DBColumn()), len(args)+1))
		args = append(args, v)
	}
	if len(sets) == 0 {
		return fmt.Errorf("update %s: record has no non-key fields", obj.QualifiedName())
	}
	args = append(args, keyValue)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		pq.QuoteIdentifier(TableName(obj)),
		strings.Join(sets, ", "),
		pq.QuoteIdentifier(key.DBColumn()),
		len(args))

	m.log.Debug("om update", zap.String("object", obj.QualifiedName()), zap.String("query", query))
	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", obj.QualifiedName(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return metadata.ErrNotFound("no %s row with %s = %v", obj.QualifiedName(), key.ShortName(), keyValue)
	}
	return nil
}

// Delete removes the record with the given primary key value.
func (m *ObjectManager) Delete(ctx context.Context, obj metadata.MetaObject, keyValue any) error {
	key, err := obj.PrimaryKeyField()
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		pq.QuoteIdentifier(TableName(obj)),
		pq.QuoteIdentifier(key.DBColumn()))

	m.log.Debug("om delete", zap.String("object", obj.QualifiedName()), zap.String("query", query))
	res, err := m.db.ExecContext(ctx, query, keyValue)
	if err != nil {
		return fmt.Errorf("delete %s: %w", obj.QualifiedName(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return metadata.ErrNotFound("no %s row with %s = %v", obj.QualifiedName(), key.ShortName(), keyValue)
	}
	return nil
}

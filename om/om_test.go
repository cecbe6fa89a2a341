package om

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

func newUserObject(t *testing.T) metadata.MetaObject {
	t.Helper()
	obj := metadata.NewObject(metadata.ObjectPojo, "acme::User")
	require.NoError(t, obj.SetAttr(metadata.AttrString, metadata.AttrNameDBTable, "users"))

	id := metadata.NewField(metadata.FieldLong, "id")
	require.NoError(t, obj.AddChild(id.MetaData))
	require.NoError(t, id.SetAttr(metadata.AttrBoolean, metadata.AttrNameIsKey, "true"))

	name := metadata.NewField(metadata.FieldString, "name")
	require.NoError(t, obj.AddChild(name.MetaData))
	require.NoError(t, name.SetAttr(metadata.AttrString, metadata.AttrNameDBColumn, "full_name"))

	return obj
}

func newManager(t *testing.T) (*ObjectManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, nil), mock
}

func TestTableName(t *testing.T) {
	obj := newUserObject(t)
	assert.Equal(t, "users", TableName(obj))

	bare := metadata.NewObject(metadata.ObjectPojo, "acme::Account")
	assert.Equal(t, "account", TableName(bare))
}

func TestCreate(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users" ("id", "full_name") VALUES ($1, $2)`)).
		WithArgs(int64(7), "Ada").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := m.Create(context.Background(), obj, map[string]any{"id": int64(7), "name": "Ada"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePartialRecord(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users" ("full_name") VALUES ($1)`)).
		WithArgs("Ada").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, m.Create(context.Background(), obj, map[string]any{"name": "Ada"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmptyRecordFails(t *testing.T) {
	m, _ := newManager(t)
	obj := newUserObject(t)

	err := m.Create(context.Background(), obj, map[string]any{"unmapped": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mapped fields")
}

func TestRead(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	rows := sqlmock.NewRows([]string{"id", "full_name"}).AddRow(int64(7), "Ada")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "full_name" FROM "users" WHERE "id" = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	record, err := m.Read(context.Background(), obj, int64(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), record["id"])
	assert.Equal(t, "Ada", record["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadNotFound(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "full_name" FROM "users" WHERE "id" = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}))

	_, err := m.Read(context.Background(), obj, int64(404))
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMetaDataNotFound))
}

func TestUpdate(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "full_name" = $1 WHERE "id" = $2`)).
		WithArgs("Grace", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := m.Update(context.Background(), obj, map[string]any{"id": int64(7), "name": "Grace"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingKeyFails(t *testing.T) {
	m, _ := newManager(t)
	obj := newUserObject(t)

	err := m.Update(context.Background(), obj, map[string]any{"name": "Grace"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestUpdateNoRows(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "full_name" = $1 WHERE "id" = $2`)).
		WithArgs("Grace", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.Update(context.Background(), obj, map[string]any{"id": int64(404), "name": "Grace"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMetaDataNotFound))
}

func TestDelete(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE "id" = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, m.Delete(context.Background(), obj, int64(7)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNoRows(t *testing.T) {
	m, mock := newManager(t)
	obj := newUserObject(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE "id" = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.Delete(context.Background(), obj, int64(404))
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMetaDataNotFound))
}

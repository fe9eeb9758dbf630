package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/models"
)

func newTestStorageRepo(t *testing.T) (*storageRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	database, mock, db := newTestDatabase(t)
	repo := &storageRepository{
		db:     database,
		logger: database.log,
	}
	return repo, mock, db
}

func TestCollectionID_Existing(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(7)
	mock.ExpectQuery("SELECT id FROM collections").
		WithArgs("bookmarks", int64(42)).
		WillReturnRows(rows)

	collectionID, err := repo.CollectionID(context.Background(), 42, "bookmarks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collectionID != 7 {
		t.Errorf("expected collectionID=7, got %d", collectionID)
	}
}

func TestCollectionID_CreatesOnFirstUse(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM collections").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO collections").
		WithArgs(int64(42), "bookmarks").
		WillReturnResult(sqlmock.NewResult(9, 1))

	collectionID, err := repo.CollectionID(context.Background(), 42, "bookmarks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collectionID != 9 {
		t.Errorf("expected collectionID=9, got %d", collectionID)
	}
}

func TestCollectionID_ConcurrentCreateFallsBackToLookup(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM collections").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO collections").
		WillReturnError(pgError(pgerrcode.UniqueViolation))
	mock.ExpectQuery("SELECT id FROM collections").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	collectionID, err := repo.CollectionID(context.Background(), 42, "bookmarks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collectionID != 11 {
		t.Errorf("expected collectionID=11, got %d", collectionID)
	}
}

func TestExpireWBOs(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM wbo WHERE ttl > 0 AND modified \\+ ttl < ?").
		WithArgs(1000.0).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.ExpireWBOs(context.Background(), 1000.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveWBO_InsertsNewObject(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM wbo").
		WithArgs(int64(7), "obj").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO wbo").
		WillReturnResult(sqlmock.NewResult(1, 1))

	payload := "data"
	wbo := models.WBO{ID: "obj", Payload: &payload}

	if err := repo.SaveWBO(context.Background(), 7, 100.0, wbo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveWBO_UpdatesExistingObject(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM wbo").
		WithArgs(int64(7), "obj").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("UPDATE wbo SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := "data"
	wbo := models.WBO{ID: "obj", Payload: &payload}

	if err := repo.SaveWBO(context.Background(), 7, 100.0, wbo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveWBO_MissingID(t *testing.T) {
	repo, _, db := newTestStorageRepo(t)
	defer db.Close()

	err := repo.SaveWBO(context.Background(), 7, 100.0, models.WBO{})
	if !errors.Is(err, ErrMissingWBOID) {
		t.Fatalf("expected ErrMissingWBOID, got %v", err)
	}
}

func TestGetWBO_Success(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"name", "modified", "sortindex", "payload", "parentid", "predecessorid"}).
		AddRow("obj", 123.45, 10, "data", nil, "pred")
	mock.ExpectQuery("SELECT name, modified, sortindex, payload, parentid, predecessorid FROM wbo").
		WithArgs(int64(7), "obj").
		WillReturnRows(rows)

	wbo, err := repo.GetWBO(context.Background(), 7, "obj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wbo.ID != "obj" {
		t.Errorf("expected id obj, got %s", wbo.ID)
	}
	if wbo.Modified == nil || *wbo.Modified != 123.45 {
		t.Errorf("expected modified 123.45, got %v", wbo.Modified)
	}
	if wbo.SortIndex == nil || *wbo.SortIndex != 10 {
		t.Errorf("expected sortindex 10, got %v", wbo.SortIndex)
	}
	if wbo.ParentID != nil {
		t.Errorf("expected nil parentid, got %v", *wbo.ParentID)
	}
	if wbo.PredecessorID == nil || *wbo.PredecessorID != "pred" {
		t.Errorf("expected predecessorid pred, got %v", wbo.PredecessorID)
	}
}

func TestGetWBO_NotFound(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT name, modified, sortindex, payload, parentid, predecessorid FROM wbo").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetWBO(context.Background(), 7, "missing")
	if !errors.Is(err, ErrWBONotFound) {
		t.Fatalf("expected ErrWBONotFound, got %v", err)
	}
}

func TestGetCollection_IDsOnly(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b")
	mock.ExpectQuery("SELECT name FROM wbo").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	wbos, err := repo.GetCollection(context.Background(), 7, urlparser.Modifiers{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wbos) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(wbos))
	}
	if wbos[0].ID != "a" || wbos[1].ID != "b" {
		t.Errorf("unexpected ids: %s, %s", wbos[0].ID, wbos[1].ID)
	}
	if wbos[0].Payload != nil {
		t.Error("expected id-only rows without payload")
	}
}

func TestGetCollection_Empty(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM wbo").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	wbos, err := repo.GetCollection(context.Background(), 7, urlparser.Modifiers{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wbos == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(wbos) != 0 {
		t.Errorf("expected no objects, got %d", len(wbos))
	}
}

func TestDeleteWBO(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM wbo").
		WithArgs(int64(7), "obj").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteWBO(context.Background(), 7, "obj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteWBO_NonexistentRecordSucceeds(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	// zero rows affected is still a successful delete
	mock.ExpectExec("DELETE FROM wbo").
		WithArgs(int64(7), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteWBO(context.Background(), 7, "ghost"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteCollection_DropsEmptyCollection(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM wbo").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectQuery("SELECT 1 FROM wbo").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("DELETE FROM collections").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteCollection(context.Background(), 7, urlparser.Modifiers{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteCollection_KeepsNonEmptyCollection(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM wbo").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT 1 FROM wbo").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	modifiers := urlparser.Modifiers{"ids": {"a"}}
	if err := repo.DeleteCollection(context.Background(), 7, modifiers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteStorage(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM wbo WHERE collectionid IN").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectExec("DELETE FROM collections").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteStorage(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCollectionModifiedTimes(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "max"}).
		AddRow("bookmarks", 100.456).
		AddRow("history", 200.0)
	mock.ExpectQuery("SELECT collections.name, MAX").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	times, err := repo.CollectionModifiedTimes(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if times["bookmarks"] != 100.46 {
		t.Errorf("expected rounded modified 100.46, got %v", times["bookmarks"])
	}
	if times["history"] != 200.0 {
		t.Errorf("expected modified 200.0, got %v", times["history"])
	}
}

func TestCollectionSizes(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "sum"}).AddRow("bookmarks", 2500)
	mock.ExpectQuery("SELECT collections.name, SUM").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	sizes, err := repo.CollectionSizes(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sizes["bookmarks"] != 2.5 {
		t.Errorf("expected size 2.5 kB, got %v", sizes["bookmarks"])
	}
}

func TestCollectionCounts(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "count"}).AddRow("bookmarks", 12)
	mock.ExpectQuery("SELECT collections.name, COUNT").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	counts, err := repo.CollectionCounts(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts["bookmarks"] != 12 {
		t.Errorf("expected count 12, got %d", counts["bookmarks"])
	}
}

func TestNumClients(t *testing.T) {
	repo, mock, db := newTestStorageRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("clients", int64(42)).
		WillReturnRows(rows)

	numClients, err := repo.NumClients(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if numClients != 3 {
		t.Errorf("expected 3 clients, got %d", numClients)
	}
}

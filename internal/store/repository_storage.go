// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/internal/utils"
	"github.com/MKhiriev/go-weave-sync/models"
)

// clientsCollection is the reserved collection holding one record per
// attached sync client.
const clientsCollection = "clients"

// storageRepository is the SQL-backed implementation of [StorageRepository].
// It owns the "collections" and "wbo" tables: collection resolution with
// on-demand creation, object upserts, modifier-driven reads and deletes,
// expiry and the per-collection aggregates.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type storageRepository struct {
	logger *logger.Logger
	db     *Database
}

// NewStorageRepository constructs a [StorageRepository] backed by the
// provided database connection and logger.
func NewStorageRepository(db *Database, logger *logger.Logger) StorageRepository {
	logger.Debug().Msg("creating storage repository")
	return &storageRepository{
		db:     db,
		logger: logger,
	}
}

// CollectionID resolves a collection name to its id, creating the
// collection on first use. A concurrent create is absorbed by retrying
// the lookup when the insert hits the (userid, name) unique constraint.
func (r *storageRepository) CollectionID(ctx context.Context, userID int64, name string) (int64, error) {
	log := logger.FromContext(ctx)

	collectionID, err := r.findCollectionID(ctx, userID, name)
	if err == nil {
		return collectionID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).Str("func", "*storageRepository.CollectionID").Msg("error: looking up collection")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	collectionID, err = r.createCollection(ctx, userID, name)
	if isUniqueViolation(err) {
		collectionID, err = r.findCollectionID(ctx, userID, name)
	}
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.CollectionID").Msg("error: creating collection")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return collectionID, nil
}

func (r *storageRepository) findCollectionID(ctx context.Context, userID int64, name string) (int64, error) {
	query, args, err := sq.Select("id").
		From("collections").
		Where(sq.Eq{"userid": userID, "name": name}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		return 0, ErrBuildingSQLQuery
	}

	var collectionID int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&collectionID); err != nil {
		return 0, err
	}

	return collectionID, nil
}

func (r *storageRepository) createCollection(ctx context.Context, userID int64, name string) (int64, error) {
	builder := sq.Insert("collections").
		Columns("userid", "name").
		Values(userID, name).
		PlaceholderFormat(r.db.Placeholder())

	// SQLite reports the new id via LastInsertId, PostgreSQL via RETURNING
	if r.db.Driver() == DriverPostgres {
		query, args, err := builder.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, ErrBuildingSQLQuery
		}

		var collectionID int64
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&collectionID); err != nil {
			return 0, err
		}
		return collectionID, nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, ErrBuildingSQLQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// ExpireWBOs deletes objects whose time to live has elapsed at now.
// Objects with ttl 0 never expire.
func (r *storageRepository) ExpireWBOs(ctx context.Context, now float64) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("wbo").
		Where(sq.Expr("ttl > 0 AND modified + ttl < ?", now)).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.ExpireWBOs").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*storageRepository.ExpireWBOs").Msg("error: deleting expired objects")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// SaveWBO inserts or updates a single object. On update only the fields
// present on wbo overwrite stored columns, so partial records never wipe
// existing data.
func (r *storageRepository) SaveWBO(ctx context.Context, collectionID int64, modified float64, wbo models.WBO) error {
	log := logger.FromContext(ctx)

	if wbo.ID == "" {
		return ErrMissingWBOID
	}

	exists, err := r.wboExists(ctx, collectionID, wbo.ID)
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.SaveWBO").Msg("error: checking object existence")
		return err
	}

	var query string
	var args []any
	if exists {
		query, args, err = buildUpdateWBO(collectionID, modified, wbo, r.db.Placeholder())
	} else {
		query, args, err = buildInsertWBO(collectionID, modified, wbo, r.db.Placeholder())
	}
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.SaveWBO").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*storageRepository.SaveWBO").Msg("error: saving object")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *storageRepository) wboExists(ctx context.Context, collectionID int64, wboID string) (bool, error) {
	query, args, err := sq.Select("1").
		From("wbo").
		Where(sq.Eq{"collectionid": collectionID, "name": wboID}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		return false, ErrBuildingSQLQuery
	}

	var one int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("unexpected DB error: %w", err)
	}

	return true, nil
}

// GetWBO fetches a single object by id.
func (r *storageRepository) GetWBO(ctx context.Context, collectionID int64, wboID string) (models.WBO, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("name", "modified", "sortindex", "payload", "parentid", "predecessorid").
		From("wbo").
		Where(sq.Eq{"collectionid": collectionID, "name": wboID}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.GetWBO").Msg("error: building query")
		return models.WBO{}, ErrBuildingSQLQuery
	}

	wbo, err := scanWBO(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.WBO{}, ErrWBONotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.GetWBO").Msg("error: scanning error")
		return models.WBO{}, err
	}

	return wbo, nil
}

// GetCollection fetches objects matching the query modifiers. When full
// is false only object ids are populated.
func (r *storageRepository) GetCollection(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers, full bool) ([]models.WBO, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCollectionQuery(collectionID, modifiers, full, r.db.Placeholder())
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.GetCollection").Msg("error: building query")
		return nil, ErrBuildingSQLQuery
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.GetCollection").Msg("error: querying collection")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	wbos := []models.WBO{}
	for rows.Next() {
		var wbo models.WBO
		if full {
			wbo, err = scanWBO(rows)
		} else {
			err = rows.Scan(&wbo.ID)
		}
		if err != nil {
			log.Err(err).Str("func", "*storageRepository.GetCollection").Msg("error: scanning error")
			return nil, ErrScanningRows
		}

		wbos = append(wbos, wbo)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*storageRepository.GetCollection").Msg("error: iterating rows")
		return nil, ErrScanningRows
	}

	return wbos, nil
}

// DeleteWBO removes a single object by id.
func (r *storageRepository) DeleteWBO(ctx context.Context, collectionID int64, wboID string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("wbo").
		Where(sq.Eq{"collectionid": collectionID, "name": wboID}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteWBO").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteWBO").Msg("error: deleting object")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// DeleteCollection removes objects matching the selection modifiers and
// drops the collection row once it holds no more objects.
func (r *storageRepository) DeleteCollection(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteCollectionQuery(collectionID, modifiers, r.db.Placeholder())
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteCollection").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteCollection").Msg("error: deleting objects")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return r.dropCollectionIfEmpty(ctx, collectionID)
}

func (r *storageRepository) dropCollectionIfEmpty(ctx context.Context, collectionID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("1").
		From("wbo").
		Where(sq.Eq{"collectionid": collectionID}).
		Limit(1).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		return ErrBuildingSQLQuery
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).Str("func", "*storageRepository.dropCollectionIfEmpty").Msg("error: checking collection emptiness")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	query, args, err = sq.Delete("collections").
		Where(sq.Eq{"id": collectionID}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*storageRepository.dropCollectionIfEmpty").Msg("error: dropping empty collection")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// DeleteStorage removes every collection and object of the user.
func (r *storageRepository) DeleteStorage(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	wboQuery, wboArgs, err := sq.Delete("wbo").
		Where(sq.Expr("collectionid IN (SELECT id FROM collections WHERE userid = ?)", userID)).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteStorage").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, wboQuery, wboArgs...); err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteStorage").Msg("error: deleting objects")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	collectionsQuery, collectionsArgs, err := sq.Delete("collections").
		Where(sq.Eq{"userid": userID}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteStorage").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, collectionsQuery, collectionsArgs...); err != nil {
		log.Err(err).Str("func", "*storageRepository.DeleteStorage").Msg("error: deleting collections")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// CollectionModifiedTimes returns the last modification time per
// non-empty collection.
func (r *storageRepository) CollectionModifiedTimes(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := r.queryAggregate(ctx, "MAX(wbo.modified)", userID, "*storageRepository.CollectionModifiedTimes")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	log := logger.FromContext(ctx)

	times := map[string]float64{}
	for rows.Next() {
		var name string
		var modified float64
		if err := rows.Scan(&name, &modified); err != nil {
			log.Err(err).Str("func", "*storageRepository.CollectionModifiedTimes").Msg("error: scanning error")
			return nil, ErrScanningRows
		}
		times[name] = utils.RoundTimestamp(modified)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrScanningRows
	}

	return times, nil
}

// CollectionSizes returns the payload volume per non-empty collection in
// kilobytes.
func (r *storageRepository) CollectionSizes(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := r.queryAggregate(ctx, "SUM(LENGTH(wbo.payload))", userID, "*storageRepository.CollectionSizes")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	log := logger.FromContext(ctx)

	sizes := map[string]float64{}
	for rows.Next() {
		var name string
		var bytes int64
		if err := rows.Scan(&name, &bytes); err != nil {
			log.Err(err).Str("func", "*storageRepository.CollectionSizes").Msg("error: scanning error")
			return nil, ErrScanningRows
		}
		sizes[name] = float64(bytes) / 1000.0
	}
	if err := rows.Err(); err != nil {
		return nil, ErrScanningRows
	}

	return sizes, nil
}

// CollectionCounts returns the object count per non-empty collection.
func (r *storageRepository) CollectionCounts(ctx context.Context, userID int64) (map[string]int64, error) {
	rows, err := r.queryAggregate(ctx, "COUNT(*)", userID, "*storageRepository.CollectionCounts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	log := logger.FromContext(ctx)

	counts := map[string]int64{}
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			log.Err(err).Str("func", "*storageRepository.CollectionCounts").Msg("error: scanning error")
			return nil, ErrScanningRows
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, ErrScanningRows
	}

	return counts, nil
}

// queryAggregate runs one aggregate grouped by collection name over the
// user's objects. The JOIN naturally omits collections without objects.
func (r *storageRepository) queryAggregate(ctx context.Context, aggregate string, userID int64, caller string) (*sql.Rows, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("collections.name", aggregate).
		From("wbo").
		Join("collections ON collections.id = wbo.collectionid").
		Where(sq.Eq{"collections.userid": userID}).
		GroupBy("collections.name").
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error: building query")
		return nil, ErrBuildingSQLQuery
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error: querying aggregate")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return rows, nil
}

// NumClients counts records in the reserved "clients" collection.
func (r *storageRepository) NumClients(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("COUNT(*)").
		From("wbo").
		Join("collections ON collections.id = wbo.collectionid").
		Where(sq.Eq{"collections.userid": userID, "collections.name": clientsCollection}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*storageRepository.NumClients").Msg("error: building query")
		return 0, ErrBuildingSQLQuery
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*storageRepository.NumClients").Msg("error: scanning error")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return count, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanWBO reads one full object row: name, modified, sortindex, payload,
// parentid, predecessorid. NULL columns stay absent on the result so they
// are omitted from serialized output.
func scanWBO(row rowScanner) (models.WBO, error) {
	var (
		wbo           models.WBO
		modified      float64
		sortIndex     sql.NullInt64
		payload       string
		parentID      sql.NullString
		predecessorID sql.NullString
	)

	if err := row.Scan(&wbo.ID, &modified, &sortIndex, &payload, &parentID, &predecessorID); err != nil {
		return models.WBO{}, err
	}

	rounded := utils.RoundTimestamp(modified)
	wbo.Modified = &rounded
	wbo.Payload = &payload
	if sortIndex.Valid {
		index := int(sortIndex.Int64)
		wbo.SortIndex = &index
	}
	if parentID.Valid {
		wbo.ParentID = &parentID.String
	}
	if predecessorID.Valid {
		wbo.PredecessorID = &predecessorID.String
	}

	return wbo, nil
}

// parseUint parses paging modifiers, rejecting negatives and garbage.
func parseUint(value string) (uint64, bool) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

const (
	recordsTable     = "pim_records"
	collectionsTable = "pim_collections"
)

var recordColumns = []string{"id", "type", "display_name", "data", "content_hash", "last_modified", "deleted"}

// SQLBackend stores records in the pim_records table. Rows with
// deleted = true are reported as deleted records; DeleteRecord removes the
// row.
type SQLBackend struct {
	db     *DB
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

func NewSQLBackend(db *DB, log *logger.Logger) *SQLBackend {
	return &SQLBackend{
		db:     db,
		ids:    utils.NewUUIDGenerator(),
		logger: log,
	}
}

// EnsureCollection registers a collection. Existing collections are left
// untouched.
func (s *SQLBackend) EnsureCollection(ctx context.Context, collectionID, recordType string) error {
	query, args, err := s.db.builder().
		Insert(collectionsTable).
		Columns("id", "name", "type").
		Values(collectionID, collectionID, recordType).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.execRetrying(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "SQLBackend.EnsureCollection").
			Str("collection", collectionID).
			Msg("failed to register collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *SQLBackend) LoadRecords(ctx context.Context, collectionID string) ([]models.BackendRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.db.builder().
		Select(recordColumns...).
		From(recordsTable).
		Where(sq.Eq{"collection_id": collectionID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "SQLBackend.LoadRecords").
			Str("collection", collectionID).
			Msg("failed to execute query for loading records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.BackendRecord, 0, 64)
	for rows.Next() {
		var rec models.BackendRecord
		if scanErr := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.DisplayName,
			&rec.Data,
			&rec.ContentHash,
			&rec.LastModified,
			&rec.IsDeleted,
		); scanErr != nil {
			log.Err(scanErr).
				Str("func", "SQLBackend.LoadRecords").
				Str("collection", collectionID).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "SQLBackend.LoadRecords").
			Str("collection", collectionID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (s *SQLBackend) CreateRecord(ctx context.Context, collectionID string, rec models.BackendRecord) (string, error) {
	log := logger.FromContext(ctx)

	id := collectionID + "/" + s.ids.Generate()
	query, args, err := s.db.builder().
		Insert(recordsTable).
		Columns("id", "collection_id", "type", "display_name", "data", "content_hash", "last_modified", "deleted").
		Values(id, collectionID, rec.Type, rec.DisplayName, rec.Data, utils.ContentHash(rec.Data), time.Now().UTC(), false).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.execRetrying(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "SQLBackend.CreateRecord").
			Str("collection", collectionID).
			Msg("failed to insert record")
		if s.db.isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", ErrRecordExists, id)
		}
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}

func (s *SQLBackend) UpdateRecord(ctx context.Context, rec models.BackendRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := s.db.builder().
		Update(recordsTable).
		Set("type", rec.Type).
		Set("display_name", rec.DisplayName).
		Set("data", rec.Data).
		Set("content_hash", utils.ContentHash(rec.Data)).
		Set("last_modified", time.Now().UTC()).
		Set("deleted", false).
		Where(sq.Eq{"id": rec.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.execAffectingOne(ctx, log, "SQLBackend.UpdateRecord", rec.ID, query, args)
}

func (s *SQLBackend) DeleteRecord(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := s.db.builder().
		Delete(recordsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.execAffectingOne(ctx, log, "SQLBackend.DeleteRecord", id, query, args)
}

func (s *SQLBackend) execAffectingOne(ctx context.Context, log *logger.Logger, fn, id, query string, args []any) error {
	result, err := s.db.execRetrying(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Str("id", id).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

func (s *SQLBackend) CollectionInfo(ctx context.Context, collectionID string) (models.CollectionInfo, error) {
	query, args, err := s.db.builder().
		Select("name", "type").
		From(collectionsTable).
		Where(sq.Eq{"id": collectionID}).
		ToSql()
	if err != nil {
		return models.CollectionInfo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	info := models.CollectionInfo{Path: recordsTable + "/" + collectionID}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&info.Name, &info.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CollectionInfo{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionID)
	}
	if err != nil {
		return models.CollectionInfo{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return info, nil
}

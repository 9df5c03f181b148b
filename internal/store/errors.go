package store

import "errors"

// Sentinel errors returned by backends and identity stores. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when an update or delete targets a record
	// that does not exist in the backend.
	ErrRecordNotFound = errors.New("backend record was not found")

	// ErrRecordExists is returned when a create collides with an existing ID.
	ErrRecordExists = errors.New("backend record already exists")

	// ErrCollectionNotFound is returned for collections the backend does not know.
	ErrCollectionNotFound = errors.New("backend collection was not found")

	// ErrInvalidRecordID is returned for IDs that do not belong to the backend.
	ErrInvalidRecordID = errors.New("invalid backend record id")

	// ErrStateLocked is returned when the identity store file is locked by
	// another process.
	ErrStateLocked = errors.New("identity store is locked by another process")
)

// Low-level database operation errors. These are returned (or wrapped) by
// the SQL backend when an operation fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRows is returned when scanning result rows fails.
	ErrScanningRows = errors.New("failed to scan backend record rows")
)

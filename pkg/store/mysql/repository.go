package mysql

import "context"

// Repository aggregates all MySQL repositories
type Repository struct {
	ds *Datastore

	Telemetry *TelemetryRepository
}

// NewRepository creates a new MySQL repository with all sub-repositories
func NewRepository(dsn string) (*Repository, error) {
	ds, err := NewDatastore(dsn)
	if err != nil {
		return nil, err
	}

	return &Repository{
		ds:        ds,
		Telemetry: NewTelemetryRepository(ds),
	}, nil
}

// Ping verifies the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.ds.Ping(ctx)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.ds.Close()
}

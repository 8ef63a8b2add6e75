package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TelemetryRepository handles per-asset telemetry record persistence in MySQL
type TelemetryRepository struct {
	ds *Datastore
}

// NewTelemetryRepository creates a new telemetry repository
func NewTelemetryRepository(ds *Datastore) *TelemetryRepository {
	return &TelemetryRepository{ds: ds}
}

// GetByMAC retrieves the telemetry record for an asset, or nil when no record
// exists yet.
func (r *TelemetryRepository) GetByMAC(ctx context.Context, macAddress string) (*TelemetryRecord, error) {
	var record TelemetryRecord
	err := r.ds.DB(ctx).Where("mac_address = ?", macAddress).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get telemetry record: %w", err)
	}
	return &record, nil
}

// Upsert atomically creates or replaces the telemetry record for an asset.
// The whole record is written as one unit so a failed ingest leaves no
// partial state.
func (r *TelemetryRepository) Upsert(ctx context.Context, record *TelemetryRecord) error {
	err := r.ds.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "mac_address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"health_status", "health_score", "current_data", "historical_data",
			"health_analysis", "alerts", "last_updated", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert telemetry record: %w", err)
	}
	return nil
}

// ListStatusAggregates returns count and average score per health status.
func (r *TelemetryRepository) ListStatusAggregates(ctx context.Context) ([]*StatusAggregate, error) {
	var aggregates []*StatusAggregate
	err := r.ds.DB(ctx).Model(&TelemetryRecord{}).
		Select("health_status, COUNT(*) AS count, AVG(health_score) AS avg_score").
		Where("health_status <> ''").
		Group("health_status").
		Find(&aggregates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate health statuses: %w", err)
	}
	return aggregates, nil
}

// Count returns the total number of telemetry records.
func (r *TelemetryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.ds.DB(ctx).Model(&TelemetryRecord{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count telemetry records: %w", err)
	}
	return count, nil
}

// ListAll pages through every telemetry record.
func (r *TelemetryRepository) ListAll(ctx context.Context, limit, offset int) ([]*TelemetryRecord, error) {
	var records []*TelemetryRecord
	err := r.ds.DB(ctx).Order("id").Limit(limit).Offset(offset).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list telemetry records: %w", err)
	}
	return records, nil
}

// PruneHistoricalBefore drops historical samples older than the cutoff from
// every record. MySQL JSON columns cannot be trimmed in place portably, so
// records are rewritten a batch at a time, each batch in one transaction.
func (r *TelemetryRepository) PruneHistoricalBefore(ctx context.Context, cutoff time.Time) (int, error) {
	const batchSize = 200
	pruned := 0

	for offset := 0; ; offset += batchSize {
		records, err := r.ListAll(ctx, batchSize, offset)
		if err != nil {
			return pruned, err
		}
		if len(records) == 0 {
			break
		}

		err = r.ds.ExecTx(ctx, func(ctx context.Context) error {
			for _, record := range records {
				kept := record.HistoricalData[:0]
				for _, sample := range record.HistoricalData {
					if !sample.Timestamp.Before(cutoff) {
						kept = append(kept, sample)
					}
				}
				dropped := len(record.HistoricalData) - len(kept)
				if dropped == 0 {
					continue
				}
				record.HistoricalData = kept

				err := r.ds.DB(ctx).Model(&TelemetryRecord{}).
					Where("id = ?", record.ID).
					Update("historical_data", record.HistoricalData).Error
				if err != nil {
					return fmt.Errorf("failed to prune record %s: %w", record.MACAddress, err)
				}
				pruned += dropped
			}
			return nil
		})
		if err != nil {
			return pruned, err
		}

		if len(records) < batchSize {
			break
		}
	}

	return pruned, nil
}

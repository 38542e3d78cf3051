package ingest

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/models"
)

// PropStore is the slice of persistence the upsert engine needs.
type PropStore interface {
	FindPropsByConflictKeys(ctx context.Context, keys []string) (map[string]*models.PlayerProp, error)
	InsertProps(ctx context.Context, rows []*models.PlayerProp) error
	UpdatePropOffer(ctx context.Context, id uint, row *models.PlayerProp) error
}

// UpsertResult counts what one upsert pass did. A resubmission of identical
// rows yields all zeroes except Unchanged.
type UpsertResult struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Errors    int `json:"errors"`
}

func (r *UpsertResult) add(other UpsertResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Unchanged += other.Unchanged
	r.Errors += other.Errors
}

// UpsertEngine writes prop rows in batches. Each batch fails independently:
// a bad batch counts its rows as errors and the next batch still runs.
type UpsertEngine struct {
	store     PropStore
	logger    *logrus.Logger
	batchSize int
}

func NewUpsertEngine(store PropStore, logger *logrus.Logger, batchSize int) *UpsertEngine {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &UpsertEngine{store: store, logger: logger, batchSize: batchSize}
}

// Upsert validates, dedupes and writes the rows. Invalid rows count as
// errors without stopping the pass. Within a batch, rows are partitioned
// into inserts, changed updates and unchanged no-ops against the current
// database state, so counters stay honest across reruns.
func (e *UpsertEngine) Upsert(ctx context.Context, rows []*models.PlayerProp) UpsertResult {
	var result UpsertResult

	valid := make([]*models.PlayerProp, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		if err := validateRow(row); err != nil {
			result.Errors++
			e.logger.WithError(err).WithField("conflict_key", row.ConflictKey).Warn("Dropping invalid prop row")
			continue
		}
		// Same key appearing twice in one payload: last occurrence wins.
		if idx, ok := seen[row.ConflictKey]; ok {
			valid[idx] = row
			continue
		}
		seen[row.ConflictKey] = len(valid)
		valid = append(valid, row)
	}

	for start := 0; start < len(valid); start += e.batchSize {
		end := start + e.batchSize
		if end > len(valid) {
			end = len(valid)
		}
		batch := valid[start:end]
		br, err := e.upsertBatch(ctx, batch)
		if err != nil {
			result.Errors += len(batch)
			e.logger.WithError(err).WithFields(logrus.Fields{
				"batch_start": start,
				"batch_size":  len(batch),
			}).Error("Batch upsert failed, continuing with next batch")
			continue
		}
		result.add(br)
	}
	return result
}

func (e *UpsertEngine) upsertBatch(ctx context.Context, batch []*models.PlayerProp) (UpsertResult, error) {
	var r UpsertResult

	keys := make([]string, len(batch))
	for i, row := range batch {
		keys[i] = row.ConflictKey
	}
	existing, err := e.store.FindPropsByConflictKeys(ctx, keys)
	if err != nil {
		return r, err
	}

	var inserts []*models.PlayerProp
	type update struct {
		id  uint
		row *models.PlayerProp
	}
	var updates []update

	for _, row := range batch {
		current, ok := existing[row.ConflictKey]
		switch {
		case !ok:
			inserts = append(inserts, row)
		case current.SameOffer(row):
			r.Unchanged++
		default:
			updates = append(updates, update{id: current.ID, row: row})
		}
	}

	if len(inserts) > 0 {
		if err := e.store.InsertProps(ctx, inserts); err != nil {
			return UpsertResult{}, err
		}
		r.Inserted = len(inserts)
	}
	for _, u := range updates {
		if err := e.store.UpdatePropOffer(ctx, u.id, u.row); err != nil {
			r.Errors++
			e.logger.WithError(err).WithField("conflict_key", u.row.ConflictKey).Warn("Prop update failed")
			continue
		}
		r.Updated++
	}
	return r, nil
}

func validateRow(row *models.PlayerProp) error {
	switch {
	case row.PlayerID == "":
		return errMissingPlayerID
	case row.Date == "":
		return errMissingDate
	case row.PropType == "":
		return errMissingPropType
	case row.OverOdds == nil && row.UnderOdds == nil:
		return errNoOddsSides
	}
	return nil
}

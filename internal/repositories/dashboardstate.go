package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/models"
	"github.com/myrjola/reelcheck/internal/sqlite"
	"log/slog"
	"time"
)

// DashboardStateRepository stores one dashboard state per browser session.
type DashboardStateRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewDashboardStateRepository(db *sqlite.Database, logger *slog.Logger) *DashboardStateRepository {
	return &DashboardStateRepository{
		db:     db,
		logger: logger.With(slog.String("source", "DashboardStateRepository")),
	}
}

type dashboardStateRow struct {
	Generation  int64  `db:"generation"`
	Selection   string `db:"selection"`
	EntryID     string `db:"entry_id"`
	Phase       string `db:"phase"`
	URL         string `db:"url"`
	Result      []byte `db:"result"`
	Feedback    []byte `db:"feedback"`
	Error       string `db:"error"`
	SavedReelID string `db:"saved_reel_id"`
}

func toRow(st models.DashboardState) (dashboardStateRow, error) {
	row := dashboardStateRow{
		Generation:  st.Generation,
		Selection:   string(st.Selection),
		EntryID:     st.EntryID,
		Phase:       string(st.Phase),
		URL:         st.URL,
		Result:      nil,
		Feedback:    nil,
		Error:       st.Error,
		SavedReelID: st.SavedReelID,
	}
	var err error
	if st.Result != nil {
		if row.Result, err = json.Marshal(st.Result); err != nil {
			return row, errors.Wrap(err, "marshal check result")
		}
	}
	if row.Feedback, err = json.Marshal(st.Feedback); err != nil {
		return row, errors.Wrap(err, "marshal feedback")
	}
	return row, nil
}

func (row dashboardStateRow) toState() (models.DashboardState, error) {
	st := models.DashboardState{
		Generation:  row.Generation,
		Selection:   models.Selection(row.Selection),
		EntryID:     row.EntryID,
		Phase:       models.Phase(row.Phase),
		URL:         row.URL,
		Result:      nil,
		Feedback:    models.Feedback{},
		Error:       row.Error,
		SavedReelID: row.SavedReelID,
	}
	if len(row.Result) > 0 {
		var result models.CheckResult
		if err := json.Unmarshal(row.Result, &result); err != nil {
			return st, errors.Wrap(err, "unmarshal check result")
		}
		st.Result = &result
	}
	if len(row.Feedback) > 0 {
		if err := json.Unmarshal(row.Feedback, &st.Feedback); err != nil {
			return st, errors.Wrap(err, "unmarshal feedback")
		}
	}
	return st, nil
}

// formatTimestamp matches STRFTIME('%Y-%m-%dT%H:%M:%fZ') so stored timestamps compare as text.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

const selectState = `SELECT generation, selection, entry_id, phase, url, result, feedback, error, saved_reel_id
FROM dashboard_states WHERE state_key = ?`

const upsertState = `INSERT INTO dashboard_states
    (state_key, generation, selection, entry_id, phase, url, result, feedback, error, saved_reel_id, updated)
VALUES (:state_key, :generation, :selection, :entry_id, :phase, :url, :result, :feedback, :error, :saved_reel_id,
        :updated)
ON CONFLICT (state_key) DO UPDATE SET generation    = excluded.generation,
                                      selection     = excluded.selection,
                                      entry_id      = excluded.entry_id,
                                      phase         = excluded.phase,
                                      url           = excluded.url,
                                      result        = excluded.result,
                                      feedback      = excluded.feedback,
                                      error         = excluded.error,
                                      saved_reel_id = excluded.saved_reel_id,
                                      updated       = excluded.updated`

// Load returns the zero state when key has no stored state.
func (r *DashboardStateRepository) Load(ctx context.Context, key string) (models.DashboardState, error) {
	var row dashboardStateRow
	if err := r.db.ReadOnly.GetContext(ctx, &row, selectState, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DashboardState{}, nil
		}
		return models.DashboardState{}, errors.Wrap(err, "select dashboard state")
	}
	st, err := row.toState()
	if err != nil {
		return models.DashboardState{}, errors.Wrap(err, "decode dashboard state")
	}
	return st, nil
}

func (r *DashboardStateRepository) Put(ctx context.Context, key string, st models.DashboardState) error {
	return r.upsert(ctx, r.db.ReadWrite, key, st)
}

type namedExecer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

func (r *DashboardStateRepository) upsert(ctx context.Context, ex namedExecer, key string, st models.DashboardState) error {
	row, err := toRow(st)
	if err != nil {
		return errors.Wrap(err, "encode dashboard state")
	}
	if _, err = ex.NamedExecContext(ctx, upsertState, map[string]any{
		"state_key":     key,
		"generation":    row.Generation,
		"selection":     row.Selection,
		"entry_id":      row.EntryID,
		"phase":         row.Phase,
		"url":           row.URL,
		"result":        row.Result,
		"feedback":      row.Feedback,
		"error":         row.Error,
		"saved_reel_id": row.SavedReelID,
		"updated":       formatTimestamp(time.Now()),
	}); err != nil {
		return errors.Wrap(err, "upsert dashboard state", slog.Int64("generation", st.Generation))
	}
	return nil
}

// CompareAndPut stores st only if the stored generation equals generation. The check and the write share one
// immediate transaction so concurrent writers are serialised.
func (r *DashboardStateRepository) CompareAndPut(
	ctx context.Context,
	key string,
	st models.DashboardState,
	generation int64,
) (bool, error) {
	var (
		err     error
		tx      *sqlx.Tx
		current int64
	)
	if tx, err = r.db.ReadWrite.BeginTxx(ctx, nil); err != nil {
		return false, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
				errors.SlogError(errors.Wrap(rollbackErr, "rollback")))
		}
	}()
	err = tx.GetContext(ctx, &current, "SELECT generation FROM dashboard_states WHERE state_key = ?", key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, errors.Wrap(err, "select generation")
	}
	if current != generation {
		return false, nil
	}
	if err = r.upsert(ctx, tx, key, st); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, errors.Wrap(err, "commit transaction")
	}
	return true, nil
}

func (r *DashboardStateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, "DELETE FROM dashboard_states WHERE state_key = ?", key); err != nil {
		return errors.Wrap(err, "delete dashboard state")
	}
	return nil
}

// DeleteStale removes states not updated within maxAge. Their sessions have expired by then.
func (r *DashboardStateRepository) DeleteStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := formatTimestamp(time.Now().Add(-maxAge))
	res, err := r.db.ReadWrite.ExecContext(ctx, "DELETE FROM dashboard_states WHERE updated < ?", cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "delete stale dashboard states")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}

// StartCleanup deletes stale states every interval until ctx is done.
func (r *DashboardStateRepository) StartCleanup(ctx context.Context, interval, maxAge time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
		n, err := r.DeleteStale(ctx, maxAge)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.LogAttrs(ctx, slog.LevelError, "dashboard state cleanup failed", errors.SlogError(err))
			continue
		}
		r.logger.LogAttrs(ctx, slog.LevelDebug, "dashboard state cleanup", slog.Int64("deleted", n))
	}
}

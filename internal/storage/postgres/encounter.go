package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/bloodrage/internal/game/combat"
)

// ErrOutcomeNotFound is returned when an outcome lookup yields no results.
var ErrOutcomeNotFound = errors.New("encounter outcome not found")

// ErrOutcomeExists is returned when an encounter's outcome is recorded twice.
var ErrOutcomeExists = errors.New("encounter outcome already recorded")

// SceneStats tallies finished encounters of one scene.
type SceneStats struct {
	SceneID   string
	Victories int
	Defeats   int
	Escapes   int
}

// Total returns the number of finished encounters.
func (s SceneStats) Total() int { return s.Victories + s.Defeats + s.Escapes }

// EncounterRepository is the append-only encounter outcome log. It
// implements combat.OutcomeRecorder.
type EncounterRepository struct {
	db *pgxpool.Pool
}

// NewEncounterRepository creates an EncounterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEncounterRepository(db *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{db: db}
}

// RecordOutcome inserts o.
//
// Precondition: o.Result must be a terminal state; o.EncounterID must be non-empty.
// Postcondition: Returns ErrOutcomeExists if the encounter was already recorded.
func (r *EncounterRepository) RecordOutcome(ctx context.Context, o combat.Outcome) error {
	if !o.Result.Terminal() {
		return fmt.Errorf("recording outcome %q: result %s is not terminal", o.EncounterID, o.Result)
	}
	survivors := o.Survivors
	if survivors == nil {
		survivors = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO encounter_outcomes
			(encounter_id, scene_id, result, turns, rounds, survivors, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.EncounterID, o.SceneID, o.Result.String(), o.Turns, o.Rounds, survivors,
		o.StartedAt, o.EndedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrOutcomeExists
		}
		return fmt.Errorf("inserting outcome: %w", err)
	}
	return nil
}

// Get retrieves the outcome of one encounter.
//
// Postcondition: Returns the Outcome or ErrOutcomeNotFound.
func (r *EncounterRepository) Get(ctx context.Context, encounterID string) (combat.Outcome, error) {
	row := r.db.QueryRow(ctx, `
		SELECT encounter_id, scene_id, result, turns, rounds, survivors, started_at, ended_at
		FROM encounter_outcomes WHERE encounter_id = $1`,
		encounterID,
	)
	o, err := scanOutcome(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return combat.Outcome{}, ErrOutcomeNotFound
		}
		return combat.Outcome{}, fmt.Errorf("getting outcome: %w", err)
	}
	return o, nil
}

// Recent returns up to limit outcomes, newest first. An empty sceneID lists
// every scene.
//
// Precondition: limit >= 1.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *EncounterRepository) Recent(ctx context.Context, sceneID string, limit int) ([]combat.Outcome, error) {
	rows, err := r.db.Query(ctx, `
		SELECT encounter_id, scene_id, result, turns, rounds, survivors, started_at, ended_at
		FROM encounter_outcomes
		WHERE $1 = '' OR scene_id = $1
		ORDER BY ended_at DESC, encounter_id ASC
		LIMIT $2`,
		sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing outcomes: %w", err)
	}
	defer rows.Close()

	out := make([]combat.Outcome, 0)
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning outcome row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Stats tallies the results recorded for sceneID.
func (r *EncounterRepository) Stats(ctx context.Context, sceneID string) (SceneStats, error) {
	s := SceneStats{SceneID: sceneID}
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE result = 'victory'),
			COUNT(*) FILTER (WHERE result = 'defeat'),
			COUNT(*) FILTER (WHERE result = 'escape')
		FROM encounter_outcomes WHERE scene_id = $1`,
		sceneID,
	).Scan(&s.Victories, &s.Defeats, &s.Escapes)
	if err != nil {
		return SceneStats{}, fmt.Errorf("tallying outcomes: %w", err)
	}
	return s, nil
}

func scanOutcome(row pgx.Row) (combat.Outcome, error) {
	var (
		o      combat.Outcome
		result string
	)
	if err := row.Scan(
		&o.EncounterID, &o.SceneID, &result, &o.Turns, &o.Rounds, &o.Survivors,
		&o.StartedAt, &o.EndedAt,
	); err != nil {
		return combat.Outcome{}, err
	}
	state, err := parseResult(result)
	if err != nil {
		return combat.Outcome{}, err
	}
	o.Result = state
	o.StartedAt = o.StartedAt.UTC()
	o.EndedAt = o.EndedAt.UTC()
	return o, nil
}

func parseResult(s string) (combat.State, error) {
	for _, st := range []combat.State{combat.StateVictory, combat.StateDefeat, combat.StateEscape} {
		if st.String() == s {
			return st, nil
		}
	}
	return combat.StateIdle, fmt.Errorf("unknown encounter result %q", s)
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

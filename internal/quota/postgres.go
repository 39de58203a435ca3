package quota

import (
	"database/sql"
	"fmt"
	"time"
)

// PostgresCounter backs the daily quota with the daily_usage table so
// counts survive restarts and are shared across replicas. The same
// reset-on-new-day and at-limit-refusal semantics hold: the whole
// check-and-increment is one statement, so concurrent callers serialize
// on the row.
type PostgresCounter struct {
	db    *sql.DB
	limit int
	now   func() time.Time
}

func NewPostgresCounter(db *sql.DB, limit int) *PostgresCounter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &PostgresCounter{db: db, limit: limit, now: time.Now}
}

// SetClock overrides the time source for tests.
func (c *PostgresCounter) SetClock(now func() time.Time) {
	c.now = now
}

func (c *PostgresCounter) today() string {
	return c.now().Format("2006-01-02")
}

func (c *PostgresCounter) TryIncrement(key string) (bool, int, error) {
	day := c.today()

	// Normalize the row to today. A stale row restarts at zero, so
	// rollover needs no separate cleanup pass.
	_, err := c.db.Exec(`
		INSERT INTO daily_usage (identity_key, usage_day, count)
		VALUES ($1, $2, 0)
		ON CONFLICT (identity_key) DO UPDATE SET
			count = CASE
				WHEN daily_usage.usage_day <> EXCLUDED.usage_day THEN 0
				ELSE daily_usage.count
			END,
			usage_day = EXCLUDED.usage_day`,
		key, day,
	)
	if err != nil {
		return false, 0, fmt.Errorf("normalize daily usage: %w", err)
	}

	// The guarded increment takes the row lock, so two callers at
	// count 99 cannot both reach 101.
	var count int
	err = c.db.QueryRow(`
		UPDATE daily_usage SET count = count + 1
		WHERE identity_key = $1 AND count < $2
		RETURNING count`,
		key, c.limit,
	).Scan(&count)
	if err == sql.ErrNoRows {
		n, cerr := c.Count(key)
		if cerr != nil {
			return false, 0, cerr
		}
		return false, n, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("increment daily usage: %w", err)
	}

	return true, count, nil
}

func (c *PostgresCounter) Count(key string) (int, error) {
	var count int
	err := c.db.QueryRow(`
		SELECT count FROM daily_usage
		WHERE identity_key = $1 AND usage_day = $2`,
		key, c.today(),
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read daily usage: %w", err)
	}
	return count, nil
}

func (c *PostgresCounter) Reset(key string) error {
	_, err := c.db.Exec(`
		UPDATE daily_usage SET count = 0, usage_day = $2
		WHERE identity_key = $1`,
		key, c.today(),
	)
	if err != nil {
		return fmt.Errorf("reset daily usage: %w", err)
	}
	return nil
}

func (c *PostgresCounter) Limit() int {
	return c.limit
}

package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Messbill store.
var Migrations = migrate.NewGroup("messbill")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_messbill_boarders",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS messbill_boarders (
    id              TEXT PRIMARY KEY,
    hostel_id       TEXT NOT NULL DEFAULT '',
    name            TEXT NOT NULL DEFAULT '',
    phone           TEXT NOT NULL DEFAULT '',
    email           TEXT NOT NULL DEFAULT '',
    room_number     TEXT NOT NULL DEFAULT '',
    seat_rent       NUMERIC(14,2) NOT NULL DEFAULT 0,
    opening_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
    status          TEXT NOT NULL DEFAULT 'active',
    joined_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    deleted         BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at      TIMESTAMPTZ,
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messbill_boarders_hostel ON messbill_boarders (hostel_id, deleted, status);
CREATE INDEX IF NOT EXISTS idx_messbill_boarders_name ON messbill_boarders (hostel_id, name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS messbill_boarders`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_messbill_meals",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS messbill_meals (
    id           TEXT PRIMARY KEY,
    hostel_id    TEXT NOT NULL DEFAULT '',
    boarder_id   TEXT NOT NULL DEFAULT '',
    date         TIMESTAMPTZ NOT NULL,
    breakfast    NUMERIC(8,2) NOT NULL DEFAULT 0,
    lunch        NUMERIC(8,2) NOT NULL DEFAULT 0,
    dinner       NUMERIC(8,2) NOT NULL DEFAULT 0,
    custom_meals JSONB NOT NULL DEFAULT '[]',
    off_day      BOOLEAN NOT NULL DEFAULT FALSE,
    total        NUMERIC(8,2) NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_messbill_meals_day ON messbill_meals (hostel_id, boarder_id, date);
CREATE INDEX IF NOT EXISTS idx_messbill_meals_hostel_date ON messbill_meals (hostel_id, date);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS messbill_meals`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_messbill_expenses",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS messbill_expenses (
    id         TEXT PRIMARY KEY,
    hostel_id  TEXT NOT NULL DEFAULT '',
    title      TEXT NOT NULL DEFAULT '',
    category   TEXT NOT NULL DEFAULT 'others',
    amount     NUMERIC(14,2) NOT NULL DEFAULT 0,
    date       TIMESTAMPTZ NOT NULL,
    added_by   TEXT NOT NULL DEFAULT '',
    notes      TEXT NOT NULL DEFAULT '',
    attachment TEXT NOT NULL DEFAULT '',
    deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at TIMESTAMPTZ,
    metadata   JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messbill_expenses_hostel_date ON messbill_expenses (hostel_id, date);
CREATE INDEX IF NOT EXISTS idx_messbill_expenses_category ON messbill_expenses (hostel_id, category, date);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS messbill_expenses`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_messbill_payments",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS messbill_payments (
    id          TEXT PRIMARY KEY,
    hostel_id   TEXT NOT NULL DEFAULT '',
    boarder_id  TEXT NOT NULL DEFAULT '',
    amount      NUMERIC(14,2) NOT NULL DEFAULT 0,
    date        TIMESTAMPTZ NOT NULL,
    method      TEXT NOT NULL DEFAULT 'cash',
    reference   TEXT NOT NULL DEFAULT '',
    received_by TEXT NOT NULL DEFAULT '',
    notes       TEXT NOT NULL DEFAULT '',
    metadata    JSONB NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messbill_payments_boarder ON messbill_payments (hostel_id, boarder_id, date);
CREATE INDEX IF NOT EXISTS idx_messbill_payments_hostel_date ON messbill_payments (hostel_id, date);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS messbill_payments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_messbill_closings",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS messbill_closings (
    id          TEXT PRIMARY KEY,
    hostel_id   TEXT NOT NULL DEFAULT '',
    year        INT NOT NULL,
    month       INT NOT NULL,
    locked      BOOLEAN NOT NULL DEFAULT FALSE,
    locked_by   TEXT NOT NULL DEFAULT '',
    locked_at   TIMESTAMPTZ,
    unlocked_by TEXT NOT NULL DEFAULT '',
    unlocked_at TIMESTAMPTZ,
    rate        JSONB NOT NULL DEFAULT '{}',
    statements  JSONB NOT NULL DEFAULT '[]',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_messbill_closings_period ON messbill_closings (hostel_id, year, month);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS messbill_closings`)
				return err
			},
		},
	)
}

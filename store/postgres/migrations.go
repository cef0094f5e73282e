package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Mint store.
var Migrations = migrate.NewGroup("mint")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_mint_economies",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_economies (
    id             TEXT PRIMARY KEY,
    currency_name  TEXT NOT NULL DEFAULT '',
    currency_unit  TEXT NOT NULL DEFAULT '',
    owner_guild_id BIGINT NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_mint_economies_currency ON mint_economies (currency_name);
CREATE INDEX IF NOT EXISTS idx_mint_economies_owner_guild ON mint_economies (owner_guild_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_economies`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_guilds",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_guilds (
    guild_id   BIGINT PRIMARY KEY,
    economy_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_mint_guilds_economy ON mint_guilds (economy_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_guilds`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_accounts",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_accounts (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL DEFAULT '',
    owner_id       BIGINT,
    kind           TEXT NOT NULL DEFAULT 'user',
    balance        BIGINT NOT NULL DEFAULT 0,
    income_to_date BIGINT NOT NULL DEFAULT 0,
    economy_id     TEXT NOT NULL DEFAULT '',
    closed_at      TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_mint_accounts_economy ON mint_accounts (economy_id);
CREATE INDEX IF NOT EXISTS idx_mint_accounts_owner ON mint_accounts (owner_id, economy_id);
CREATE INDEX IF NOT EXISTS idx_mint_accounts_name ON mint_accounts (economy_id, name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_balance_subscriptions",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_balance_subscriptions (
    id           TEXT PRIMARY KEY,
    principal_id BIGINT NOT NULL DEFAULT 0,
    account_id   TEXT NOT NULL DEFAULT ''
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_mint_bsubs_principal_account ON mint_balance_subscriptions (principal_id, account_id);
CREATE INDEX IF NOT EXISTS idx_mint_bsubs_account ON mint_balance_subscriptions (account_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_balance_subscriptions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_permissions",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_permissions (
    id           TEXT PRIMARY KEY,
    principal_id BIGINT NOT NULL DEFAULT 0,
    kind         TEXT NOT NULL DEFAULT '',
    account_id   TEXT NOT NULL DEFAULT '',
    economy_id   TEXT NOT NULL DEFAULT '',
    allowed      BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_mint_perms_scope ON mint_permissions (principal_id, kind, account_id, economy_id);
CREATE INDEX IF NOT EXISTS idx_mint_perms_kind ON mint_permissions (kind, principal_id);
CREATE INDEX IF NOT EXISTS idx_mint_perms_account ON mint_permissions (account_id);
CREATE INDEX IF NOT EXISTS idx_mint_perms_economy ON mint_permissions (economy_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_permissions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_tax_brackets",
			Version: "20240101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_tax_brackets (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL DEFAULT '',
    economy_id     TEXT NOT NULL DEFAULT '',
    affected_kind  TEXT NOT NULL DEFAULT '',
    kind           TEXT NOT NULL DEFAULT '',
    range_start    BIGINT NOT NULL DEFAULT 0,
    range_end      BIGINT NOT NULL DEFAULT 0,
    rate           INT NOT NULL DEFAULT 0,
    destination_id TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_mint_brackets_name ON mint_tax_brackets (economy_id, name);
CREATE INDEX IF NOT EXISTS idx_mint_brackets_kind ON mint_tax_brackets (economy_id, kind, range_start);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_tax_brackets`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_recurring_transfers",
			Version: "20240101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_recurring_transfers (
    id            TEXT PRIMARY KEY,
    authorizer_id BIGINT NOT NULL DEFAULT 0,
    from_id       TEXT NOT NULL DEFAULT '',
    to_id         TEXT NOT NULL DEFAULT '',
    amount        BIGINT NOT NULL DEFAULT 0,
    kind          TEXT NOT NULL DEFAULT 'personal',
    last_paid_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    interval_ns   BIGINT NOT NULL DEFAULT 0,
    payments_left INT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_mint_recurring_from ON mint_recurring_transfers (from_id);
CREATE INDEX IF NOT EXISTS idx_mint_recurring_to ON mint_recurring_transfers (to_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_recurring_transfers`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_transactions",
			Version: "20240101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_transactions (
    id              TEXT PRIMARY KEY,
    actor_id        BIGINT NOT NULL DEFAULT 0,
    timestamp       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    action          TEXT NOT NULL DEFAULT '',
    change          TEXT NOT NULL DEFAULT '',
    economy_id      TEXT NOT NULL DEFAULT '',
    from_account_id TEXT NOT NULL DEFAULT '',
    to_account_id   TEXT NOT NULL DEFAULT '',
    amount          BIGINT,
    metadata        JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_mint_txns_economy ON mint_transactions (economy_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_mint_txns_from ON mint_transactions (from_account_id);
CREATE INDEX IF NOT EXISTS idx_mint_txns_to ON mint_transactions (to_account_id);
CREATE INDEX IF NOT EXISTS idx_mint_txns_action ON mint_transactions (economy_id, action);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_transactions`)
				return err
			},
		},
	)
}

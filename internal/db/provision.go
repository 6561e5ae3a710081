package db

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"loftmanager/internal/logs"
)

// Provisioner creates the full relational schema on first use, in place of a
// separate migration step. Every statement is guarded with create-if-absent,
// so concurrent first requests and process restarts are both safe.
type Provisioner struct {
	db           *gorm.DB
	demoPassword string

	mu   sync.Mutex
	done bool
}

func NewProvisioner(db *gorm.DB, demoPassword string) *Provisioner {
	return &Provisioner{db: db, demoPassword: demoPassword}
}

// schemaStatements runs in order. Enum creation uses a DO block because
// postgres has no CREATE TYPE IF NOT EXISTS.
var schemaStatements = []string{
	`DO $$ BEGIN
		CREATE TYPE user_role AS ENUM ('admin', 'manager', 'member');
	EXCEPTION
		WHEN duplicate_object THEN null;
	END $$`,

	`DO $$ BEGIN
		CREATE TYPE task_status AS ENUM ('todo', 'in_progress', 'completed');
	EXCEPTION
		WHEN duplicate_object THEN null;
	END $$`,

	`DO $$ BEGIN
		CREATE TYPE loft_status AS ENUM ('available', 'occupied', 'maintenance');
	EXCEPTION
		WHEN duplicate_object THEN null;
	END $$`,

	`DO $$ BEGIN
		CREATE TYPE transaction_status AS ENUM ('pending', 'completed', 'failed');
	EXCEPTION
		WHEN duplicate_object THEN null;
	END $$`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		full_name TEXT,
		role user_role NOT NULL DEFAULT 'member',
		password_hash TEXT,
		email_verified BOOLEAN DEFAULT true,
		reset_token TEXT,
		reset_token_expires TIMESTAMPTZ,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID REFERENCES users(id) ON DELETE CASCADE,
		token TEXT UNIQUE NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS loft_owners (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT,
		ownership_type TEXT NOT NULL DEFAULT 'third_party',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS lofts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		description TEXT,
		address TEXT NOT NULL,
		price_per_month DECIMAL NOT NULL,
		status loft_status NOT NULL DEFAULT 'available',
		owner_id UUID REFERENCES loft_owners(id),
		company_percentage DECIMAL NOT NULL DEFAULT 0,
		owner_percentage DECIMAL NOT NULL DEFAULT 100,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		description TEXT,
		created_by UUID REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (team_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		description TEXT,
		status task_status NOT NULL DEFAULT 'todo',
		due_date TIMESTAMPTZ,
		assigned_to UUID REFERENCES users(id),
		team_id UUID REFERENCES teams(id),
		loft_id UUID REFERENCES lofts(id),
		created_by UUID REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		amount DECIMAL NOT NULL,
		description TEXT,
		transaction_type TEXT NOT NULL,
		status transaction_status NOT NULL DEFAULT 'pending',
		date TIMESTAMPTZ DEFAULT NOW(),
		category TEXT,
		task_id UUID REFERENCES tasks(id),
		loft_id UUID REFERENCES lofts(id),
		user_id UUID REFERENCES users(id),
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS audit_events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		actor TEXT NOT NULL,
		action TEXT NOT NULL,
		details JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_sessions_token ON user_sessions(token)`,
	`CREATE INDEX IF NOT EXISTS idx_user_sessions_user_id ON user_sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(assigned_to)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(transaction_type)`,
}

const countUsersSQL = `SELECT COUNT(*) FROM users`

// ON CONFLICT keeps a racing provisioner from double-seeding.
const seedUsersSQL = `INSERT INTO users (email, full_name, role, password_hash, email_verified) VALUES
	('admin@loftmanager.com', 'System Admin', 'admin', ?, true),
	('manager@loftmanager.com', 'Property Manager', 'manager', ?, true),
	('member@loftmanager.com', 'Team Member', 'member', ?, true)
	ON CONFLICT (email) DO NOTHING`

// Ensure provisions the schema once per process. The latch is only set after
// the whole sequence succeeds; on failure the next call retries from scratch
// and the error is fatal for the in-flight request.
func (p *Provisioner) Ensure(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return nil
	}
	if p.db == nil {
		return fmt.Errorf("schema provisioning: no database handle")
	}
	if p.db.Dialector.Name() != "postgres" {
		return fmt.Errorf("schema provisioning supports postgres only, got %s", p.db.Dialector.Name())
	}

	// Connectivity probe before any DDL.
	if err := p.db.WithContext(ctx).Exec(`SELECT 1`).Error; err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	for _, stmt := range schemaStatements {
		if err := p.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	if err := p.seedDemoUsers(ctx); err != nil {
		return err
	}

	p.done = true
	logs.Logger.Info("database schema ensured")
	return nil
}

// seedDemoUsers inserts the three demo accounts when the users table is
// completely empty. All three share one bcrypt hash of the demo password.
func (p *Provisioner) seedDemoUsers(ctx context.Context) error {
	var count int64
	if err := p.db.WithContext(ctx).Raw(countUsersSQL).Scan(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	return p.ForceSeed(ctx)
}

// ForceSeed inserts the demo accounts regardless of current table contents;
// existing emails are left untouched. Used by the seed step and the
// diagnostics endpoint.
func (p *Provisioner) ForceSeed(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.demoPassword), 12)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	if err := p.db.WithContext(ctx).Exec(seedUsersSQL, string(hash), string(hash), string(hash)).Error; err != nil {
		return fmt.Errorf("seed demo users: %w", err)
	}
	logs.Logger.Info("demo users seeded")
	return nil
}

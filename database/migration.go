package database

import (
	"database/sql"
)

// Migrate creates the schema. Tables are ordered leaves-first so foreign key
// references resolve on a fresh database.
func Migrate(db *sql.DB) error {
	steps := []func(*sql.DB) error{
		createOrganizationTable,
		createSiteTable,
		createUserTable,
		createWorkOrderTable,
		createWorkOrderPartTable,
		createWorkOrderAssignmentTable,
		createWorkOrderCompletionTable,
		createAttachmentTable,
		createCommentTable,
		createWorkOrderEventTable,
		createNotificationOutboxTable,
	}
	for _, step := range steps {
		if err := step(db); err != nil {
			return err
		}
	}
	return nil
}

func createOrganizationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS organizations (
			id SERIAL PRIMARY KEY,
			organization_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			timezone TEXT NOT NULL DEFAULT 'America/Boise',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createSiteTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sites (
			id SERIAL PRIMARY KEY,
			site_id TEXT NOT NULL UNIQUE,
			organization_id TEXT NOT NULL REFERENCES organizations(organization_id),
			name TEXT NOT NULL,
			address TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createUserTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			organization_id TEXT NOT NULL REFERENCES organizations(organization_id),
			role TEXT NOT NULL CHECK (role IN ('gm', 'contractor')),
			full_name TEXT NOT NULL,
			phone TEXT,
			email TEXT NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createWorkOrderTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS work_orders (
			id SERIAL PRIMARY KEY,
			work_order_id TEXT NOT NULL UNIQUE,
			organization_id TEXT NOT NULL REFERENCES organizations(organization_id),
			site_id TEXT NOT NULL REFERENCES sites(site_id),
			location_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			priority TEXT NOT NULL DEFAULT 'normal' CHECK (priority IN ('emergency', 'high', 'normal', 'low')),
			status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'in_progress', 'on_hold', 'needs_review', 'closed')),
			on_hold_reason TEXT CHECK (on_hold_reason IN ('awaiting_parts', 'awaiting_approval', 'awaiting_access', 'awaiting_vendor', 'other')),
			on_hold_notes TEXT,
			due_at TIMESTAMPTZ,
			created_by_user_id TEXT NOT NULL REFERENCES users(user_id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			closed_at TIMESTAMPTZ,
			closed_by_user_id TEXT REFERENCES users(user_id)
		)
	`)
	return err
}

func createWorkOrderPartTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS work_order_parts (
			id SERIAL PRIMARY KEY,
			part_id TEXT NOT NULL UNIQUE,
			work_order_id TEXT NOT NULL REFERENCES work_orders(work_order_id),
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			is_required BOOLEAN NOT NULL DEFAULT TRUE,
			approval_status TEXT NOT NULL DEFAULT 'not_requested' CHECK (approval_status IN ('not_requested', 'pending_approval', 'approved', 'rejected')),
			procurement_status TEXT NOT NULL DEFAULT 'not_started' CHECK (procurement_status IN ('not_started', 'quoted', 'ordered', 'arrived', 'backordered', 'cancelled')),
			quoted_total_cost_cents BIGINT,
			actual_total_cost_cents BIGINT,
			quoted_at TIMESTAMPTZ,
			ordered_at TIMESTAMPTZ,
			arrived_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createWorkOrderAssignmentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS work_order_assignments (
			id SERIAL PRIMARY KEY,
			assignment_id TEXT NOT NULL UNIQUE,
			work_order_id TEXT NOT NULL REFERENCES work_orders(work_order_id),
			assigned_to_user_id TEXT NOT NULL REFERENCES users(user_id),
			assigned_by_user_id TEXT NOT NULL REFERENCES users(user_id),
			assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			unassigned_at TIMESTAMPTZ,
			force_assigned BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return err
	}
	// One active assignment per work order at any instant.
	_, err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS work_order_assignments_active_unique
		ON work_order_assignments (work_order_id)
		WHERE unassigned_at IS NULL
	`)
	return err
}

func createWorkOrderCompletionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS work_order_completions (
			id SERIAL PRIMARY KEY,
			completion_id TEXT NOT NULL UNIQUE,
			work_order_id TEXT NOT NULL REFERENCES work_orders(work_order_id),
			submitted_by_user_id TEXT NOT NULL REFERENCES users(user_id),
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			minutes_worked INTEGER NOT NULL,
			completion_notes TEXT,
			review_status TEXT NOT NULL DEFAULT 'submitted' CHECK (review_status IN ('submitted', 'approved', 'rejected')),
			reviewed_by_user_id TEXT REFERENCES users(user_id),
			reviewed_at TIMESTAMPTZ,
			review_notes TEXT
		)
	`)
	return err
}

func createAttachmentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS attachments (
			id SERIAL PRIMARY KEY,
			attachment_id TEXT NOT NULL UNIQUE,
			work_order_id TEXT NOT NULL REFERENCES work_orders(work_order_id),
			completion_id TEXT REFERENCES work_order_completions(completion_id),
			uploaded_by_user_id TEXT NOT NULL REFERENCES users(user_id),
			type TEXT NOT NULL CHECK (type IN ('issue_photo', 'completion_photo', 'other')),
			file_url TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createCommentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id SERIAL PRIMARY KEY,
			comment_id TEXT NOT NULL UNIQUE,
			work_order_id TEXT NOT NULL REFERENCES work_orders(work_order_id),
			user_id TEXT NOT NULL REFERENCES users(user_id),
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createWorkOrderEventTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS work_order_events (
			id SERIAL PRIMARY KEY,
			event_id TEXT NOT NULL UNIQUE,
			work_order_id TEXT NOT NULL REFERENCES work_orders(work_order_id),
			actor_user_id TEXT NOT NULL REFERENCES users(user_id),
			type TEXT NOT NULL,
			message TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createNotificationOutboxTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS notification_outbox (
			id SERIAL PRIMARY KEY,
			outbox_id TEXT NOT NULL UNIQUE,
			organization_id TEXT NOT NULL REFERENCES organizations(organization_id),
			work_order_id TEXT REFERENCES work_orders(work_order_id),
			destination TEXT NOT NULL,
			template TEXT NOT NULL CHECK (template IN ('assigned', 'completion_submitted', 'completion_rejected', 'closed')),
			payload JSONB NOT NULL DEFAULT '{}',
			send_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			sent_at TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'sent', 'failed')),
			provider_message_id TEXT,
			last_error TEXT
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS notification_outbox_due_idx
		ON notification_outbox (send_at, outbox_id)
		WHERE status = 'pending'
	`)
	return err
}

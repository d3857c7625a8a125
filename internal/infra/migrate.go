package infra

import (
	"fmt"

	"gorm.io/gorm"
	"immoportal/internal/models/db_models"
)

// The two client-facing projections. properties_public never selects owner
// columns; approved_owner_contacts only yields rows for approved pairs.
var viewStatements = []string{
	`CREATE OR REPLACE VIEW properties_public AS
		SELECT id, title, description, city, zip, price, surface, rooms, type, status, created_at, updated_at
		FROM properties
		WHERE deleted_at IS NULL`,
	`CREATE OR REPLACE VIEW approved_owner_contacts AS
		SELECT cr.client_id, cr.property_id, p.owner_name, p.owner_phone, p.owner_email
		FROM contact_requests cr
		JOIN properties p ON p.id = cr.property_id
		WHERE cr.status = 'approved'
		  AND cr.deleted_at IS NULL
		  AND p.deleted_at IS NULL`,
}

var checkConstraints = []struct{ table, name, expr string }{
	{"profiles", "chk_profiles_role", "role IN ('client','agent','admin')"},
	{"properties", "chk_properties_status", "status IN ('active','rented','archived')"},
	{"contact_requests", "chk_contact_requests_status", "status IN ('pending','approved','rejected')"},
	{"subscriptions", "chk_subscriptions_status", "status IN ('active','past_due','canceled','expired')"},
}

// Migrate creates tables, status checks and views. Safe to run on every start.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&db_models.Identity{},
		&db_models.Profile{},
		&db_models.Property{},
		&db_models.PropertyImage{},
		&db_models.SearchCriteria{},
		&db_models.Subscription{},
		&db_models.ContactRequest{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, c := range checkConstraints {
		stmt := fmt.Sprintf(`DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
				ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
			END IF;
		END $$`, c.name, c.table, c.name, c.expr)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
	}

	for _, stmt := range viewStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create view: %w", err)
		}
	}
	return nil
}

// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Lookups that find nothing return an error wrapping pgx.ErrNoRows with a
// "table:<name>:" marker, which sqlerr.HandleError turns into a 404 naming
// the entity.
package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// notFound wraps pgx.ErrNoRows with the table marker.
func notFound(table string) error {
	return fmt.Errorf("table:%s: %w", table, pgx.ErrNoRows)
}

// authorColumns selects the public profile columns of alias p.
func authorColumns(p string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.username, %[1]s.handle, %[1]s.avatar_url", p)
}

// nullableUUID maps a possibly nil viewer to a query argument.
func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

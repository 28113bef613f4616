package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/uptrace/bun"
)

// EnsureSchema creates the entry and revision tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*entries.Entry)(nil),
		(*entries.Revision)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	_, err := db.NewCreateIndex().
		Model((*entries.Revision)(nil)).
		Index("guest_entry_revisions_entry_id_idx").
		Column("entry_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storage: create revision index: %w", err)
	}
	return nil
}

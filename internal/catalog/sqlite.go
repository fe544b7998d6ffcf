package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"arewesmite2yet/pkg/sqliteutil"
)

//go:embed schema.sql
var Schema string

const insertGod = `insert into gods (
    id, name, pantheon, class, status, release_date, ported_date,
    smite1_wiki, smite2_wiki, image_path, thumbnail_path,
    smite1_thumbnail_path, smite2_thumbnail_path, smite1_card_path
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func nullable(str string) sql.NullString {
	return sql.NullString{String: str, Valid: str != ""}
}

// ExportSQLite mirrors the catalog into the gods table of the sqlite
// database at dbPath, replacing whatever rows were there before.
func ExportSQLite(ctx context.Context, dbPath string, entities []Entity) error {
	db, err := sqliteutil.OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return WriteSQL(ctx, db, entities)
}

func WriteSQL(ctx context.Context, db *sql.DB, entities []Entity) error {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from gods")
	if err != nil {
		return fmt.Errorf("clear gods: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertGod)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entities {
		var releaseDate sql.NullString
		if e.ReleaseDate != nil {
			releaseDate = sql.NullString{String: *e.ReleaseDate, Valid: true}
		}
		_, err = stmt.ExecContext(
			ctx,
			e.ID,
			e.Name,
			e.Pantheon,
			string(e.Class),
			string(e.Status),
			releaseDate,
			nullable(e.PortedDate),
			nullable(e.Smite1Wiki),
			nullable(e.Smite2Wiki),
			nullable(e.ImagePath),
			nullable(e.ThumbnailPath),
			nullable(e.Smite1ThumbnailPath),
			nullable(e.Smite2ThumbnailPath),
			nullable(e.Smite1CardPath),
		)
		if err != nil {
			return fmt.Errorf("insert %q: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

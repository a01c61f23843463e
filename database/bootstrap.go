// database/bootstrap.go
package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tarlatakip/entities"
	"tarlatakip/pkg/docpath"
)

func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// visits written before parent_path existed need a column check first,
	// AutoMigrate below adds the column and backfillVisitParents fills it.
	legacy, err := visitsMissingParentPath(db)
	if err != nil {
		return nil, fmt.Errorf("inspect visits: %w", err)
	}

	if err := db.AutoMigrate(
		&entities.Farmer{},
		&entities.Field{},
		&entities.Visit{},
		&entities.Recommendation{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	if legacy {
		if err := backfillVisitParents(db); err != nil {
			return nil, fmt.Errorf("backfill visits: %w", err)
		}
	}
	return db, nil
}

// visitsMissingParentPath reports whether an existing visits table lacks the
// parent_path column.
func visitsMissingParentPath(db *gorm.DB) (bool, error) {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='visits'`).Scan(&tbl).Error; err != nil {
		return false, fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		// fresh DB, nothing to do
		return false, nil
	}

	type colInfo struct {
		Cid  int
		Name string
		Type string
		Pk   int
	}
	var cols []colInfo
	if err := db.Raw(`PRAGMA table_info(visits)`).Scan(&cols).Error; err != nil {
		return false, fmt.Errorf("table_info: %w", err)
	}
	for _, c := range cols {
		if c.Name == "parent_path" {
			return false, nil
		}
	}
	return true, nil
}

// backfillVisitParents derives parent_path from each visit's own path. The
// denormalized parent ids are left as the writer stored them.
func backfillVisitParents(db *gorm.DB) error {
	var rows []entities.Visit
	return db.Where("parent_path IS NULL OR parent_path = ''").FindInBatches(&rows, 200, func(tx *gorm.DB, _ int) error {
		for _, v := range rows {
			p, err := docpath.ParseVisit(v.Path)
			if err != nil {
				// unparseable paths stay out of every field's sub-collection
				continue
			}
			parent := docpath.Field(p.FarmerID, p.FieldID)
			if err := tx.Model(&entities.Visit{}).Where("visit_id = ?", v.VisitID).UpdateColumn("parent_path", parent).Error; err != nil {
				return err
			}
		}
		return nil
	}).Error
}

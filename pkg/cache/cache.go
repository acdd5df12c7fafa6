// Package cache implements the compilation-object cache §5 describes for
// the external driver: keyed by source-file path, invalidated when the
// file's last-modified timestamp advances past the cached value, advisory
// (the driver's correctness must never depend on a hit). It is not used by
// the core pipeline itself — cadenza.Compile is always re-run on a miss or
// stale entry; this package only gives a driver somewhere to put the
// result of that call.
package cache

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// entry is the persisted row: one compiled artifact per source path.
type entry struct {
	Path       string `gorm:"primaryKey"`
	ModTime    int64  // source file's mtime (unix seconds) at the time Output was produced
	Output     string // the generated C# text
	SourceHash string `gorm:"index"` // stored column only: Put never sets it and Get never compares it
}

// Cache wraps a gorm/sqlite-backed store of compiled output keyed by
// source path. The caller (the external driver) must serialize concurrent
// Get/Put/Invalidate calls itself — §5 places that requirement on the
// caller, not on this package.
type Cache struct {
	db *gorm.DB
}

// Open opens (creating if absent) a sqlite-backed cache at dbPath.
func Open(dbPath string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Get returns the cached output for path if present and not stale: a hit
// requires modTime to match exactly what was cached, since any advance
// invalidates the entry per §5.
func (c *Cache) Get(path string, modTime int64) (output string, ok bool, err error) {
	var e entry
	result := c.db.First(&e, "path = ?", path)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, result.Error
	}
	if e.ModTime != modTime {
		return "", false, nil
	}
	return e.Output, true, nil
}

// Put stores (or replaces) the cached output for path.
func (c *Cache) Put(path string, modTime int64, output string) error {
	e := entry{Path: path, ModTime: modTime, Output: output}
	return c.db.Save(&e).Error
}

// Invalidate removes any cached entry for path, regardless of its mtime.
func (c *Cache) Invalidate(path string) error {
	return c.db.Delete(&entry{}, "path = ?", path).Error
}

// Close releases the underlying database connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

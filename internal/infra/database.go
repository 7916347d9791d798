package infra

import (
	"fmt"

	"inventario/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection and migrates the schema.
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table, then applies the patches
// AutoMigrate cannot express. Also used by the integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Proveedor{},
		&model.Producto{},
		&model.SalidaProducto{},
		&model.MovimientoHistorial{},
		&model.HistorialPrecio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot handle on its own. Re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Last line of defence for stock >= 0, below the service checks and the
		// conditional UPDATE.
		{"chk_productos_stock", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock CHECK (stock >= 0);
  END IF;
END $$`},
		{"chk_salidas_cantidad", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_salidas_cantidad') THEN
    ALTER TABLE salidas_producto ADD CONSTRAINT chk_salidas_cantidad CHECK (cantidad >= 1);
  END IF;
END $$`},
		// Journal listing: newest first, optionally by kind.
		{"idx_historial_tipo_fecha",
			`CREATE INDEX IF NOT EXISTS idx_historial_tipo_fecha ON historial_movimientos (tipo, created_at DESC)`},
		// Name search uses ILIKE '%…%'.
		{"idx_productos_nombre_lower",
			`CREATE INDEX IF NOT EXISTS idx_productos_nombre_lower ON productos (LOWER(nombre))`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

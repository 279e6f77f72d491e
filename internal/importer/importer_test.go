package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/config"
	"github.com/crisdel29/siscontevolucion/internal/database"
	"github.com/crisdel29/siscontevolucion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var importNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestImporter(t *testing.T, db *gorm.DB, atomic bool) *Importer {
	t.Helper()
	return New(db, Options{
		Dir:    filepath.Join(t.TempDir(), "uploads"),
		Atomic: atomic,
		Now:    func() time.Time { return importNow },
	})
}

// failOnCode makes asset inserts with the given code fail.
func failOnCode(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_on_code", func(tx *gorm.DB) {
		if a, ok := tx.Statement.Dest.(*models.Asset); ok && a.Code == code {
			_ = tx.AddError(errors.New("insert rejected"))
		}
	})
	require.NoError(t, err)
}

func upload(t *testing.T, imp *Importer, headers []string, rows ...[]interface{}) *Preview {
	t.Helper()
	p, err := imp.Upload(context.Background(), "activos.xlsx", buildWorkbook(t, headers, rows...), nil)
	require.NoError(t, err)
	return p
}

func countAssets(t *testing.T, db *gorm.DB, code string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Asset{}).Where("code = ?", code).Count(&n).Error)
	return n
}

func TestUpload_StoresSessionAndPreview(t *testing.T) {
	db := newTestDB(t)
	imp := newTestImporter(t, db, false)

	p := upload(t, imp,
		[]string{"CODIGO PRODUCTO", "NOMBRE ACTIVO"},
		[]interface{}{"AF-001", "Laptop"},
	)

	assert.NotEmpty(t, p.ImportID)
	assert.Equal(t, []string{"CODIGO PRODUCTO", "NOMBRE ACTIVO"}, p.Headers)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "Laptop", p.Rows[0]["NOMBRE ACTIVO"])

	rec, err := imp.Find(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportUploaded, rec.Status)
	assert.Equal(t, 1, rec.Rows)
	assert.JSONEq(t, `["CODIGO PRODUCTO","NOMBRE ACTIVO"]`, string(rec.Headers))
	assert.FileExists(t, rec.FilePath)

	// upload writes no asset
	assert.Zero(t, countAssets(t, db, "AF-001"))
}

func TestUpload_InvalidWorkbook(t *testing.T) {
	db := newTestDB(t)
	imp := newTestImporter(t, db, false)

	_, err := imp.Upload(context.Background(), "roto.xlsx", strings.NewReader("garbage"), nil)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "error = %v", err)
	assert.ErrorIs(t, err, ErrNotWorkbook)

	entries, _ := os.ReadDir(imp.dir)
	assert.Empty(t, entries)

	list, err := imp.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	db := newTestDB(t)
	imp := New(db, Options{Dir: filepath.Join(t.TempDir(), "uploads"), MaxBytes: 1024})

	_, err := imp.Upload(context.Background(), "grande.xlsx", strings.NewReader(strings.Repeat("x", 2048)), nil)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, _ := os.ReadDir(imp.dir)
	assert.Empty(t, entries)

	list, err := imp.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDistribute_Idempotent(t *testing.T) {
	db := newTestDB(t)
	imp := newTestImporter(t, db, false)
	p := upload(t, imp,
		[]string{"CODIGO PRODUCTO", "NOMBRE ACTIVO", "PORCT DEPRE"},
		[]interface{}{"AF-001", "Laptop", 25},
	)

	first, err := imp.Distribute(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 1, first.DepreciationsCreated)
	assert.Equal(t, 1, first.PlaceholderDates)
	assert.Equal(t, ModePartial, first.Mode)

	second, err := imp.Distribute(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, 0, second.DepreciationsCreated)

	assert.Equal(t, int64(1), countAssets(t, db, "AF-001"))

	var deps []models.Depreciation
	require.NoError(t, db.Find(&deps).Error)
	require.Len(t, deps, 1)
	assert.Equal(t, 2024, deps[0].Year)
	assert.Equal(t, "25", deps[0].Percentage.String())
	assert.True(t, deps[0].PriorAccumulated.IsZero())

	var asset models.Asset
	require.NoError(t, db.Where("code = ?", "AF-001").First(&asset).Error)
	assert.Equal(t, models.MethodStraightLine, asset.Method)
	assert.Equal(t, models.StatusActive, asset.Status)
	assert.Equal(t, models.DefaultAccountCode, asset.AccountCode)
	assert.Equal(t, 2024, asset.InServiceAt.Year())
	assert.True(t, asset.InServiceAt.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)), "in service at %v", asset.InServiceAt)

	rec, err := imp.Find(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportDistributed, rec.Status)
	assert.NotNil(t, rec.DistributedAt)
}

func TestDistribute_UpdatesExistingAsset(t *testing.T) {
	db := newTestDB(t)
	imp := newTestImporter(t, db, false)

	acquired := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	existing := models.Asset{
		Code:        "AF-010",
		AccountCode: "335",
		Description: "Impresora",
		AcquiredAt:  acquired,
		InServiceAt: acquired,
		Method:      models.MethodOther,
		Status:      models.StatusActive,
	}
	require.NoError(t, db.Create(&existing).Error)

	p := upload(t, imp,
		[]string{"Código del Activo", "Cuenta Contable", "Descripción", "Marca", "Modelo", "N° Serie/Placa"},
		[]interface{}{"AF-010", "336", "Impresora láser", "HP", "M404", "SN-1"},
	)
	res, err := imp.Distribute(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.PlaceholderDates)

	var got models.Asset
	require.NoError(t, db.First(&got, existing.ID).Error)
	assert.Equal(t, "336", got.AccountCode)
	assert.Equal(t, "Impresora láser", got.Description)
	assert.Equal(t, "HP", got.Brand)
	assert.Equal(t, "M404", got.Model)
	assert.Equal(t, "SN-1", got.Serial)
	assert.Equal(t, models.MethodOther, got.Method)
	assert.Equal(t, 2020, got.InServiceAt.Year())
}

func TestDistribute_SkipsIncompleteRows(t *testing.T) {
	db := newTestDB(t)
	imp := newTestImporter(t, db, false)
	p := upload(t, imp,
		[]string{"CODIGO PRODUCTO", "NOMBRE ACTIVO", "MARCA"},
		[]interface{}{nil, nil, "Solo marca"},
		[]interface{}{"AF-002", nil, nil},
		[]interface{}{"AF-003", "Proyector", nil},
	)

	res, err := imp.Distribute(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.Processed)
	assert.Zero(t, countAssets(t, db, "AF-002"))
	assert.Equal(t, int64(1), countAssets(t, db, "AF-003"))
}

func TestDistribute_AbortKeepsEarlierRows(t *testing.T) {
	db := newTestDB(t)
	failOnCode(t, db, "BOOM")
	imp := newTestImporter(t, db, false)
	p := upload(t, imp,
		[]string{"CODIGO PRODUCTO", "NOMBRE ACTIVO"},
		[]interface{}{"A1", "Monitor"},
		[]interface{}{"BOOM", "Falla"},
		[]interface{}{"A3", "Nunca"},
	)

	_, err := imp.Distribute(context.Background(), p.ImportID)
	var rerr *ReconciliationError
	require.True(t, errors.As(err, &rerr), "error = %v", err)
	assert.Equal(t, 3, rerr.Row)
	assert.Equal(t, 1, rerr.Processed)
	assert.False(t, rerr.RolledBack)

	assert.Equal(t, int64(1), countAssets(t, db, "A1"))
	assert.Zero(t, countAssets(t, db, "A3"))

	rec, err := imp.Find(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportFailed, rec.Status)
	assert.Contains(t, rec.LastError, "fila 3")
}

func TestDistribute_ReportsWorksheetRowAfterBlankRow(t *testing.T) {
	db := newTestDB(t)
	failOnCode(t, db, "BOOM")
	imp := newTestImporter(t, db, false)
	p := upload(t, imp,
		[]string{"CODIGO PRODUCTO", "NOMBRE ACTIVO"},
		[]interface{}{"A1", "Monitor"},
		[]interface{}{nil, nil},
		[]interface{}{"BOOM", "Falla"},
	)

	_, err := imp.Distribute(context.Background(), p.ImportID)
	var rerr *ReconciliationError
	require.True(t, errors.As(err, &rerr), "error = %v", err)
	assert.Equal(t, 4, rerr.Row)
	assert.Equal(t, 1, rerr.Processed)

	rec, err := imp.Find(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Contains(t, rec.LastError, "fila 4")
}

func TestDistribute_AtomicRollsBack(t *testing.T) {
	db := newTestDB(t)
	failOnCode(t, db, "BOOM")
	imp := newTestImporter(t, db, true)
	p := upload(t, imp,
		[]string{"CODIGO PRODUCTO", "NOMBRE ACTIVO"},
		[]interface{}{"A1", "Monitor"},
		[]interface{}{"BOOM", "Falla"},
	)

	_, err := imp.Distribute(context.Background(), p.ImportID)
	var rerr *ReconciliationError
	require.True(t, errors.As(err, &rerr), "error = %v", err)
	assert.True(t, rerr.RolledBack)
	assert.Zero(t, countAssets(t, db, "A1"))

	var deps int64
	require.NoError(t, db.Model(&models.Depreciation{}).Count(&deps).Error)
	assert.Zero(t, deps)
}

func TestDistribute_CostSeedsValuation(t *testing.T) {
	db := newTestDB(t)
	imp := newTestImporter(t, db, false)
	p := upload(t, imp,
		[]string{"CODIGO PRODUCTO", "NOMBRE ACTIVO", "COSTO"},
		[]interface{}{"AF-020", "Servidor", "S/ 12,500.50"},
		[]interface{}{"AF-021", "Cable", 0},
	)

	res, err := imp.Distribute(context.Background(), p.ImportID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ValuationsCreated)

	var vals []models.Valuation
	require.NoError(t, db.Find(&vals).Error)
	require.Len(t, vals, 1)
	assert.Equal(t, "12500.5", vals[0].HistoricalValue.String())
	assert.Equal(t, "12500.5", vals[0].AdjustedValue.String())
	assert.True(t, vals[0].InflationAdjustment.IsZero())
}

func TestDistribute_UnknownImport(t *testing.T) {
	imp := newTestImporter(t, newTestDB(t), false)

	_, err := imp.Distribute(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrImportNotFound)

	_, err = imp.Distribute(context.Background(), "")
	assert.ErrorIs(t, err, ErrImportNotFound)
}

func TestDelete_RemovesFileAndRecord(t *testing.T) {
	db := newTestDB(t)
	imp := newTestImporter(t, db, false)
	p := upload(t, imp, []string{"CODIGO PRODUCTO"}, []interface{}{"X"})

	rec, err := imp.Find(context.Background(), p.ImportID)
	require.NoError(t, err)

	require.NoError(t, imp.Delete(context.Background(), p.ImportID))
	assert.NoFileExists(t, rec.FilePath)

	_, err = imp.Find(context.Background(), p.ImportID)
	assert.ErrorIs(t, err, ErrImportNotFound)
	assert.ErrorIs(t, imp.Delete(context.Background(), p.ImportID), ErrImportNotFound)
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crisdel29/siscontevolucion/internal/config"
	"github.com/crisdel29/siscontevolucion/internal/database"
	"github.com/crisdel29/siscontevolucion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "database:\n" +
		"  driver: sqlite\n" +
		"  path: " + filepath.Join(dir, "test.db") + "\n" +
		"import:\n" +
		"  dir: " + filepath.Join(dir, "uploads") + "\n" +
		"security:\n" +
		"  bcrypt_cost: 4\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return runRoot()
}

func TestSetupAdmin_Idempotent(t *testing.T) {
	cfg := writeConfig(t)
	require.NoError(t, run(t, "--config", cfg, "setup-admin"))
	require.NoError(t, run(t, "--config", cfg, "setup-admin"))
}

func TestImportThenExport(t *testing.T) {
	cfg := writeConfig(t)
	dir := filepath.Dir(cfg)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"CODIGO PRODUCTO", "NOMBRE ACTIVO", "COSTO"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"A1", "Monitor", 850.5}))
	book := filepath.Join(dir, "activos.xlsx")
	require.NoError(t, f.SaveAs(book))
	require.NoError(t, f.Close())

	require.NoError(t, run(t, "--config", cfg, "import", book))

	out := filepath.Join(dir, "resumen.xlsx")
	require.NoError(t, run(t, "--config", cfg, "export", "--tipo", "resumen", "--anio", "todos", "--out", out))

	x, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer x.Close()
	v, err := x.GetCellValue("Reporte", "A8")
	require.NoError(t, err)
	assert.Equal(t, "A1", v)
}

func TestExport_RejectsUnknownKind(t *testing.T) {
	cfg := writeConfig(t)
	err := run(t, "--config", cfg, "export", "--tipo", "balance", "--out", filepath.Join(filepath.Dir(cfg), "x.xlsx"))
	assert.Error(t, err)
}

func TestImport_MissingFile(t *testing.T) {
	cfg := writeConfig(t)
	err := run(t, "--config", cfg, "import", filepath.Join(filepath.Dir(cfg), "nope.xlsx"))
	assert.Error(t, err)
	assert.Nil(t, appDB, "database left open after a failed command")

	db := openConfigDB(t, cfg)
	var count int64
	require.NoError(t, db.Model(&models.ImportFile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func openConfigDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	cfg, err := config.Load(path)
	require.NoError(t, err)
	db, err := database.Init(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

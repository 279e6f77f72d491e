package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/logger"
	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrImportNotFound is returned for an unknown import id.
	ErrImportNotFound = errors.New("importación no encontrada")
	// ErrFileTooLarge is returned when an upload exceeds Options.MaxBytes.
	ErrFileTooLarge = errors.New("el archivo excede el tamaño máximo permitido")
)

// Batch modes reported by Distribute.
const (
	ModePartial = "partial"
	ModeAtomic  = "atomic"
)

// ReconciliationError aborts a distribute run at Row (1-based sheet row).
// Processed rows before it stay written unless RolledBack is set.
type ReconciliationError struct {
	Row        int
	Processed  int
	RolledBack bool
	Err        error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("error procesando fila %d: %v", e.Row, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// Options configures an Importer.
type Options struct {
	Dir    string
	Atomic bool
	// MaxBytes caps stored uploads; zero means no limit.
	MaxBytes int64
	// Now defaults to time.Now.
	Now func() time.Time
}

// Importer runs the upload, preview and distribute pipeline.
type Importer struct {
	db       *gorm.DB
	dir      string
	atomic   bool
	maxBytes int64
	now      func() time.Time
	log      *zap.Logger
}

func New(db *gorm.DB, opts Options) *Importer {
	dir := opts.Dir
	if dir == "" {
		dir = "uploads"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Importer{
		db:       db,
		dir:      dir,
		atomic:   opts.Atomic,
		maxBytes: opts.MaxBytes,
		now:      now,
		log:      logger.Named("importer"),
	}
}

// Mode returns ModeAtomic or ModePartial.
func (i *Importer) Mode() string {
	if i.atomic {
		return ModeAtomic
	}
	return ModePartial
}

// MaxBytes returns the upload size cap, zero when unlimited.
func (i *Importer) MaxBytes() int64 {
	return i.maxBytes
}

// Preview is the upload response.
type Preview struct {
	ImportID string   `json:"importId"`
	FileName string   `json:"archivo"`
	Headers  []string `json:"headers"`
	Rows     []Row    `json:"preview"`
}

// Upload stores the workbook, records an import session and returns the
// parsed preview. Nothing else is written.
func (i *Importer) Upload(ctx context.Context, name string, r io.Reader, userID *uint) (*Preview, error) {
	if r == nil {
		return nil, &ParseError{Op: "read upload", Err: ErrNoFile}
	}
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(i.dir, id+uploadExt(name))
	size, err := writeFile(path, r, i.maxBytes)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			i.log.Warn("upload too large", zap.String("file", name), zap.Int64("max_bytes", i.maxBytes))
		}
		return nil, err
	}

	if err := checkWorkbookType(path); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	sheet, err := parseFile(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	headers, err := json.Marshal(sheet.Headers)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("encode headers: %w", err)
	}

	rec := models.ImportFile{
		ImportID: id,
		UserID:   userID,
		FileName: filepath.Base(name),
		FilePath: path,
		Size:     size,
		Rows:     len(sheet.Rows),
		Headers:  datatypes.JSON(headers),
		Status:   models.ImportUploaded,
	}
	if err := i.db.WithContext(ctx).Create(&rec).Error; err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("save import record: %w", err)
	}

	i.log.Info("workbook uploaded",
		zap.String("import_id", id),
		zap.String("file", rec.FileName),
		zap.Int("rows", rec.Rows),
		zap.Strings("headers", sheet.Headers))

	return &Preview{
		ImportID: id,
		FileName: rec.FileName,
		Headers:  sheet.Headers,
		Rows:     sheet.Rows,
	}, nil
}

// Result summarises a distribute run.
type Result struct {
	ImportID             string `json:"importId"`
	Mode                 string `json:"modo"`
	Year                 int    `json:"anio"`
	Processed            int    `json:"procesados"`
	Created              int    `json:"creados"`
	Updated              int    `json:"actualizados"`
	Skipped              int    `json:"omitidos"`
	DepreciationsCreated int    `json:"depreciacionesCreadas"`
	ValuationsCreated    int    `json:"valoracionesCreadas"`
	PlaceholderDates     int    `json:"fechasProvisionales"`
}

// Distribute re-reads the workbook of importID and reconciles every row
// into the asset register and the current year's ledger.
func (i *Importer) Distribute(ctx context.Context, importID string) (*Result, error) {
	rec, err := i.Find(ctx, importID)
	if err != nil {
		return nil, err
	}

	sheet, err := parseFile(rec.FilePath)
	if err != nil {
		i.markFailed(ctx, rec, err)
		return nil, err
	}

	res := &Result{ImportID: rec.ImportID, Mode: i.Mode(), Year: i.now().Year()}
	if i.atomic {
		err = i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return i.apply(tx, sheet, res)
		})
		var rerr *ReconciliationError
		if errors.As(err, &rerr) {
			rerr.RolledBack = true
		}
	} else {
		err = i.apply(i.db.WithContext(ctx), sheet, res)
	}
	if err != nil {
		i.markFailed(ctx, rec, err)
		return nil, err
	}

	now := i.now()
	rec.Status = models.ImportDistributed
	rec.LastError = ""
	rec.DistributedAt = &now
	if err := i.db.WithContext(ctx).Save(rec).Error; err != nil {
		i.log.Warn("update import record", zap.String("import_id", rec.ImportID), zap.Error(err))
	}

	i.log.Info("import distributed",
		zap.String("import_id", rec.ImportID),
		zap.String("mode", res.Mode),
		zap.Int("processed", res.Processed),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// apply reconciles rows in order and stops at the first failing row.
func (i *Importer) apply(tx *gorm.DB, sheet *Sheet, res *Result) error {
	for idx, row := range sheet.Rows {
		rowNum := sheet.RowNumber(idx)
		applied, err := i.applyRow(tx, row, res)
		if err != nil {
			i.log.Error("row failed", zap.Int("row", rowNum), zap.Error(err))
			return &ReconciliationError{Row: rowNum, Processed: res.Processed, Err: err}
		}
		if !applied {
			res.Skipped++
			i.log.Debug("row skipped", zap.Int("row", rowNum))
			continue
		}
		res.Processed++
	}
	return nil
}

func (i *Importer) applyRow(tx *gorm.DB, row Row, res *Result) (bool, error) {
	code := row.Text(FieldCode)
	description := row.Text(FieldDescription)
	if code == "" || description == "" {
		return false, nil
	}
	account := row.Text(FieldAccount)
	if account == "" {
		account = models.DefaultAccountCode
	}

	var asset models.Asset
	err := tx.Where("code = ?", code).Order("id").First(&asset).Error
	switch {
	case err == nil:
		asset.Code = code
		asset.AccountCode = account
		asset.Description = description
		asset.Brand = row.Text(FieldBrand)
		asset.Model = row.Text(FieldModel)
		asset.Serial = row.Text(FieldSerial)
		if err := tx.Save(&asset).Error; err != nil {
			return false, fmt.Errorf("update asset %s: %w", code, err)
		}
		res.Updated++
	case errors.Is(err, gorm.ErrRecordNotFound):
		today := models.CalendarDay(i.now())
		asset = models.Asset{
			Code:        code,
			AccountCode: account,
			Description: description,
			Brand:       row.Text(FieldBrand),
			Model:       row.Text(FieldModel),
			Serial:      row.Text(FieldSerial),
			AcquiredAt:  today,
			InServiceAt: today,
			Method:      models.MethodStraightLine,
			Status:      models.StatusActive,
		}
		if err := tx.Create(&asset).Error; err != nil {
			return false, fmt.Errorf("create asset %s: %w", code, err)
		}
		res.Created++
		res.PlaceholderDates++
		i.log.Warn("asset created with placeholder dates", zap.String("code", code))
	default:
		return false, fmt.Errorf("find asset %s: %w", code, err)
	}

	year := res.Year
	var count int64
	if err := tx.Model(&models.Depreciation{}).
		Where("asset_id = ? AND year = ?", asset.ID, year).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("find depreciation %s: %w", code, err)
	}
	if count == 0 {
		dep := models.Depreciation{
			AssetID:    asset.ID,
			Year:       year,
			Percentage: util.ParseAmount(util.ParseNumericValue(row.Resolve(FieldPercentage))),
		}
		if err := tx.Create(&dep).Error; err != nil {
			return false, fmt.Errorf("create depreciation %s: %w", code, err)
		}
		res.DepreciationsCreated++
	}

	cost := util.ParseAmount(util.ParseNumericValue(row.Resolve(FieldCost)))
	if cost.IsZero() {
		return true, nil
	}
	if err := tx.Model(&models.Valuation{}).
		Where("asset_id = ? AND year = ?", asset.ID, year).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("find valuation %s: %w", code, err)
	}
	if count == 0 {
		val := models.Valuation{
			AssetID:             asset.ID,
			Year:                year,
			HistoricalValue:     cost,
			InflationAdjustment: decimal.Zero,
		}
		val.Recompute()
		if err := tx.Create(&val).Error; err != nil {
			return false, fmt.Errorf("create valuation %s: %w", code, err)
		}
		res.ValuationsCreated++
	}
	return true, nil
}

// Find returns the import session with the given id.
func (i *Importer) Find(ctx context.Context, importID string) (*models.ImportFile, error) {
	importID = strings.TrimSpace(importID)
	if importID == "" {
		return nil, ErrImportNotFound
	}
	var rec models.ImportFile
	err := i.db.WithContext(ctx).Where("import_id = ?", importID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find import: %w", err)
	}
	return &rec, nil
}

// List returns import sessions, newest first.
func (i *Importer) List(ctx context.Context) ([]models.ImportFile, error) {
	var list []models.ImportFile
	if err := i.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return list, nil
}

// Delete removes the stored workbook and its import record.
func (i *Importer) Delete(ctx context.Context, importID string) error {
	rec, err := i.Find(ctx, importID)
	if err != nil {
		return err
	}
	if err := os.Remove(rec.FilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove import file: %w", err)
	}
	if err := i.db.WithContext(ctx).Delete(rec).Error; err != nil {
		return fmt.Errorf("delete import record: %w", err)
	}
	return nil
}

func (i *Importer) markFailed(ctx context.Context, rec *models.ImportFile, cause error) {
	msg := cause.Error()
	if len(msg) > 1024 {
		msg = msg[:1024]
	}
	rec.Status = models.ImportFailed
	rec.LastError = msg
	if err := i.db.WithContext(ctx).Save(rec).Error; err != nil {
		i.log.Warn("update import record", zap.String("import_id", rec.ImportID), zap.Error(err))
	}
}

// checkWorkbookType rejects uploads whose content is not a zip container.
func checkWorkbookType(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return &ParseError{Op: "detect type", Err: err}
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return nil
		}
	}
	return &ParseError{Op: "detect type", Err: fmt.Errorf("%w (%s)", ErrNotWorkbook, mtype.String())}
}

func parseFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Op: "open upload", Err: err}
	}
	defer f.Close()
	return ParseWorkbook(f)
}

// writeFile stores r at path, failing with ErrFileTooLarge past limit bytes.
func writeFile(path string, r io.Reader, limit int64) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && limit > 0 && n > limit {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write upload file: %w", err)
	}
	return n, nil
}

func uploadExt(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return ext
	}
	return ".xlsx"
}

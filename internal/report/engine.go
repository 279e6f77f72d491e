package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/logger"
	"github.com/crisdel29/siscontevolucion/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultDateLayout renders dates as dd/mm/yyyy.
const DefaultDateLayout = "02/01/2006"

// Engine reads the asset register and ledger and builds report sheets.
type Engine struct {
	db         *gorm.DB
	dateLayout string
	log        *zap.Logger
}

func NewEngine(db *gorm.DB, dateLayout string) *Engine {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return &Engine{db: db, dateLayout: dateLayout, log: logger.Named("report")}
}

// layout turns a loaded dataset into a sheet of one kind.
type layout interface {
	load(ctx context.Context, e *Engine, d *dataset) error
	build(e *Engine, d *dataset) *Sheet
}

var layouts = map[Kind]layout{
	KindFormato71: formato71{},
	KindSummary:   summary{},
	KindMovements: movements{},
}

// Build produces the report of kind k for period p, grand totals included.
func (e *Engine) Build(ctx context.Context, k Kind, p Period) (*Sheet, error) {
	l, ok := layouts[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}

	d := &dataset{period: p}
	company, err := e.company(ctx)
	if err != nil {
		return nil, err
	}
	d.company = company
	if err := l.load(ctx, e, d); err != nil {
		return nil, err
	}

	s := l.build(e, d)
	s.Kind = k
	s.Period = p.String()
	s.Company = d.company
	if s.Rows == nil {
		s.Rows = []map[string]string{}
	}
	s.computeTotals()
	return s, nil
}

// Periods returns the distinct in-service years of all assets, newest first.
func (e *Engine) Periods(ctx context.Context) ([]int, error) {
	var dates []time.Time
	if err := e.db.WithContext(ctx).Model(&models.Asset{}).
		Pluck("in_service_at", &dates).Error; err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	seen := map[int]bool{}
	years := []int{}
	for _, t := range dates {
		if t.IsZero() {
			continue
		}
		y := models.ServiceYear(t)
		if seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (e *Engine) company(ctx context.Context) (Company, error) {
	var c models.Company
	err := e.db.WithContext(ctx).Order("created_at DESC, id DESC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Company{}, nil
	}
	if err != nil {
		return Company{}, fmt.Errorf("load company: %w", err)
	}
	return Company{RUC: c.RUC, LegalName: c.LegalName}, nil
}

// formatDate renders t, leaving the cell empty for a missing date.
func (e *Engine) formatDate(assetCode, field string, t time.Time) string {
	if t.IsZero() {
		e.log.Warn("date not rendered", zap.String("asset", assetCode), zap.String("field", field))
		return ""
	}
	return t.Format(e.dateLayout)
}

// dataset is what a layout reads. Ledger maps hold one row per asset: the
// first row of the period year, or the latest year when the period is all.
type dataset struct {
	period        Period
	company       Company
	assets        []models.Asset
	movements     map[uint]*models.Movement
	valuations    map[uint]*models.Valuation
	depreciations map[uint]*models.Depreciation
	movementRows  []models.Movement
}

func (e *Engine) loadAssets(ctx context.Context, d *dataset) error {
	var all []models.Asset
	if err := e.db.WithContext(ctx).Order("code, id").Find(&all).Error; err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	d.assets = all[:0]
	for _, a := range all {
		if d.period.Includes(a.ServiceYear()) {
			d.assets = append(d.assets, a)
		}
	}
	return nil
}

// ledgerQuery selects the rows of the period, ordered so the row to keep
// for each asset comes first.
func (e *Engine) ledgerQuery(ctx context.Context, p Period) *gorm.DB {
	q := e.db.WithContext(ctx)
	if p.All {
		return q.Order("year DESC, id")
	}
	return q.Where("year = ?", p.Year).Order("id")
}

func (e *Engine) loadLedger(ctx context.Context, d *dataset) error {
	var movs []models.Movement
	if err := e.ledgerQuery(ctx, d.period).Find(&movs).Error; err != nil {
		return fmt.Errorf("load movements: %w", err)
	}
	d.movements = map[uint]*models.Movement{}
	for i := range movs {
		if _, ok := d.movements[movs[i].AssetID]; !ok {
			d.movements[movs[i].AssetID] = &movs[i]
		}
	}

	var vals []models.Valuation
	if err := e.ledgerQuery(ctx, d.period).Find(&vals).Error; err != nil {
		return fmt.Errorf("load valuations: %w", err)
	}
	d.valuations = map[uint]*models.Valuation{}
	for i := range vals {
		if _, ok := d.valuations[vals[i].AssetID]; !ok {
			d.valuations[vals[i].AssetID] = &vals[i]
		}
	}

	var deps []models.Depreciation
	if err := e.ledgerQuery(ctx, d.period).Find(&deps).Error; err != nil {
		return fmt.Errorf("load depreciation: %w", err)
	}
	d.depreciations = map[uint]*models.Depreciation{}
	for i := range deps {
		if _, ok := d.depreciations[deps[i].AssetID]; !ok {
			d.depreciations[deps[i].AssetID] = &deps[i]
		}
	}
	return nil
}

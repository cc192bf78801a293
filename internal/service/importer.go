package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/metrics"
	"github.com/guttosm/cargo-service/internal/service/cache"
)

// DefaultHeaderScanRows is how many leading rows are searched for the header.
const DefaultHeaderScanRows = 10

// minHeaderCells is the number of filled cells that marks a header row.
const minHeaderCells = 3

var (
	// ErrEmptySheet is returned for sheets without a header and a data row.
	ErrEmptySheet = errors.New("file appears empty or has no data rows")
	// ErrHeaderNotFound is returned when no row matches any known column.
	ErrHeaderNotFound = errors.New("header row not found")
	// ErrNoRecords is returned when every data row was blank or skipped.
	ErrNoRecords = errors.New("no valid rows in sheet")
	// ErrUnknownSheetKind is returned for a kind absent from the registry.
	ErrUnknownSheetKind = errors.New("unknown sheet kind")
)

// Importer parses uploaded sheets into import reports.
type Importer interface {
	// Import parses rows as a sheet of the given kind. A shape error aborts
	// the whole import; malformed cells only degrade to defaults or skips.
	Import(kind model.SheetKind, rows []model.Row) (model.ImportReport, error)
	// Kinds lists the registered sheet kinds.
	Kinds() []model.SheetKind
	// InvalidateCache drops cached previews.
	InvalidateCache()
	// CacheMetrics reports preview cache counters. ok is false when the
	// cache is disabled or does not keep counters.
	CacheMetrics() (metrics cache.Metrics, ok bool)
}

// SheetLayout describes how one sheet kind is read.
type SheetLayout struct {
	Fields []FieldSpec
	Parse  func(data []model.Row, columns model.ColumnMap, firstRow int) model.ImportReport
}

// ImporterOption configures an ImporterService.
type ImporterOption func(*ImporterService)

// ImporterService implements Importer over a registry of sheet layouts
// resolved once at construction.
type ImporterService struct {
	layouts        map[model.SheetKind]SheetLayout
	headerScanRows int
	cache          cache.Cache
}

// NewImporter creates an importer that knows packing lists and cargo summaries.
func NewImporter(opts ...ImporterOption) *ImporterService {
	s := &ImporterService{
		layouts: map[model.SheetKind]SheetLayout{
			model.SheetKindPacking: {Fields: PackingListFields, Parse: parsePackingReport},
			model.SheetKindSummary: {Fields: SummaryFields, Parse: parseSummaryReport},
		},
		headerScanRows: DefaultHeaderScanRows,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithHeaderScanRows sets how many leading rows are searched for the header.
func WithHeaderScanRows(n int) ImporterOption {
	return func(s *ImporterService) {
		if n > 0 {
			s.headerScanRows = n
		}
	}
}

// WithImportCache enables caching of reports with the given capacity and TTL.
func WithImportCache(capacity int, ttl time.Duration) ImporterOption {
	return func(s *ImporterService) {
		if capacity > 0 {
			s.cache = newTTLCache(capacity, ttl)
		}
	}
}

// WithCacheInterface injects a custom cache implementation.
func WithCacheInterface(c cache.Cache) ImporterOption {
	return func(s *ImporterService) {
		s.cache = c
	}
}

// WithLayout registers or replaces the layout of a sheet kind.
func WithLayout(kind model.SheetKind, layout SheetLayout) ImporterOption {
	return func(s *ImporterService) {
		s.layouts[kind] = layout
	}
}

// Kinds returns the registered sheet kinds in lexical order.
func (s *ImporterService) Kinds() []model.SheetKind {
	kinds := make([]model.SheetKind, 0, len(s.layouts))
	for k := range s.layouts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Import parses rows as a sheet of the given kind.
func (s *ImporterService) Import(kind model.SheetKind, rows []model.Row) (model.ImportReport, error) {
	start := time.Now()

	layout, ok := s.layouts[kind]
	if !ok {
		return model.ImportReport{}, fmt.Errorf("%w: %q", ErrUnknownSheetKind, kind)
	}

	key, cacheable := "", false
	if s.cache != nil {
		key, cacheable = cacheKey(kind, rows)
	}
	if cacheable {
		if report, ok := s.cache.Get(key); ok {
			return report, nil
		}
	}

	report, err := s.parse(kind, layout, rows)
	if err != nil {
		metrics.RecordImport(string(kind), "failed", time.Since(start))
		return report, err
	}

	metrics.RecordImport(string(kind), "success", time.Since(start))
	metrics.RecordExpandedParcels(len(report.Records))
	for _, sk := range report.Skipped {
		metrics.RecordSkippedLine(sk.Reason)
	}

	if cacheable {
		s.cache.Set(key, report)
	}
	return report, nil
}

func (s *ImporterService) parse(kind model.SheetKind, layout SheetLayout, rows []model.Row) (model.ImportReport, error) {
	if len(rows) < 2 {
		return model.ImportReport{}, ErrEmptySheet
	}

	headerIdx := DetectHeaderRow(rows, s.headerScanRows)
	if headerIdx < 0 {
		return model.ImportReport{}, ErrHeaderNotFound
	}

	columns := BuildColumnMap(headerCells(rows[headerIdx]), layout.Fields)
	if !anyMatched(columns) {
		return model.ImportReport{}, fmt.Errorf("%w: no %s column recognised in row %d", ErrHeaderNotFound, kind, headerIdx+1)
	}

	data := rows[headerIdx+1:]
	if len(data) == 0 {
		return model.ImportReport{}, ErrEmptySheet
	}

	report := layout.Parse(data, columns, headerIdx+2)
	report.Kind = kind
	report.HeaderRow = headerIdx + 1
	report.Columns = columns
	if report.Skipped == nil {
		report.Skipped = []model.SkippedLine{}
	}
	if report.Warnings == nil {
		report.Warnings = []model.ImportWarning{}
	}

	if report.RecordCount() == 0 {
		return report, ErrNoRecords
	}
	return report, nil
}

// InvalidateCache clears the preview cache.
func (s *ImporterService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// CacheMetrics reports the preview cache counters when the cache keeps them.
func (s *ImporterService) CacheMetrics() (cache.Metrics, bool) {
	mc, ok := s.cache.(cache.CacheWithMetrics)
	if !ok {
		return cache.Metrics{}, false
	}
	return mc.Metrics(), true
}

// DetectHeaderRow returns the index of the first row among the first
// maxScan rows with at least three filled cells, falling back to the first
// non-blank row. Returns -1 when the scanned rows are all blank.
func DetectHeaderRow(rows []model.Row, maxScan int) int {
	if maxScan <= 0 || maxScan > len(rows) {
		maxScan = len(rows)
	}
	firstFilled := -1
	for i := 0; i < maxScan; i++ {
		n := nonEmptyCells(rows[i])
		if n >= minHeaderCells {
			return i
		}
		if n > 0 && firstFilled < 0 {
			firstFilled = i
		}
	}
	return firstFilled
}

func parsePackingReport(data []model.Row, columns model.ColumnMap, firstRow int) model.ImportReport {
	res := ExpandPackingList(ParsePackingList(data, columns, firstRow))
	return model.ImportReport{
		Records:  res.Records,
		Skipped:  res.Skipped,
		Warnings: res.Warnings,
	}
}

func parseSummaryReport(data []model.Row, columns model.ColumnMap, _ int) model.ImportReport {
	return model.ImportReport{Summary: ParseSummary(data, columns)}
}

func headerCells(row model.Row) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = cellText(c)
	}
	return out
}

func anyMatched(columns model.ColumnMap) bool {
	for _, idx := range columns {
		if idx != model.ColumnNotFound {
			return true
		}
	}
	return false
}

// cacheKey digests the kind and the cell values of an upload. ok is false
// when a cell cannot be encoded; such uploads bypass the cache.
func cacheKey(kind model.SheetKind, rows []model.Row) (key string, ok bool) {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	if err := json.NewEncoder(h).Encode(rows); err != nil {
		return "", false
	}
	return hex.EncodeToString(h.Sum(nil)), true
}

// Package spreadsheet turns uploaded workbooks and CSV files into rows of
// cells, and writes dispatch exports.
package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// Format is the container format of an upload.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoSheet is returned for a workbook without worksheets.
	ErrNoSheet = errors.New("workbook has no sheet")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat picks the format from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// Reader parses uploads into rows.
type Reader struct {
	charset encoding.Encoding
}

// Option configures a Reader.
type Option func(*Reader)

// WithCharset sets the encoding assumed for CSV files that are not valid
// UTF-8. Unknown names keep the default Windows-1252.
func WithCharset(name string) Option {
	return func(r *Reader) {
		if enc, err := htmlindex.Get(name); err == nil {
			r.charset = enc
		}
	}
}

// NewReader creates a Reader. Non UTF-8 CSV files are decoded as
// Windows-1252 unless WithCharset says otherwise.
func NewReader(opts ...Option) *Reader {
	r := &Reader{charset: charmap.Windows1252}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses the first worksheet of an xlsx file, or a CSV file, chosen by
// the file name's extension.
func (r *Reader) Read(ctx context.Context, filename string, src io.Reader) ([]model.Row, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return r.readXLSX(src)
	default:
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return r.readCSV(data)
	}
}

func (r *Reader) readXLSX(src io.Reader) ([]model.Row, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnsupportedFormat, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	rows := make([]model.Row, len(raw))
	for i, cells := range raw {
		row := make(model.Row, len(cells))
		for j, c := range cells {
			row[j] = rawCell(c)
		}
		rows[i] = row
	}
	return rows, nil
}

// rawCell returns numeric cells as float64. Text that only looks numeric
// ("007") keeps its spelling.
func rawCell(s string) any {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || strconv.FormatFloat(f, 'f', -1, 64) != s {
		return s
	}
	return f
}

func (r *Reader) readCSV(data []byte) ([]model.Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(r.charset.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []model.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		row := make(model.Row, len(rec))
		for i, c := range rec {
			if c = strings.TrimSpace(c); c != "" {
				row[i] = c
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectDelimiter picks the separator most frequent on the first line among
// comma, semicolon and tab.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

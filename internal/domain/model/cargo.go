package model

import "encoding/json"

// Row is one spreadsheet row of untyped cells. Cells are positional until
// matched against a header row.
type Row []any

// ColumnNotFound is the index of a canonical field whose header is absent.
const ColumnNotFound = -1

// UnresolvedParcel is the parcel index produced for a descriptor that holds
// no usable number.
const UnresolvedParcel = -1

// ColumnMap maps canonical field names to zero-based header indices.
// It is built once per sheet and only read afterwards.
type ColumnMap map[string]int

// Index returns the column of field, or ColumnNotFound.
func (m ColumnMap) Index(field string) int {
	if i, ok := m[field]; ok {
		return i
	}
	return ColumnNotFound
}

// Has reports whether field was matched to a header.
func (m ColumnMap) Has(field string) bool {
	return m.Index(field) != ColumnNotFound
}

// SheetKind identifies the layout of an uploaded sheet.
type SheetKind string

// Known sheet kinds.
const (
	SheetKindPacking SheetKind = "packing"
	SheetKindSummary SheetKind = "summary"
)

// PackingListLine is one parsed packing-list row before parcel expansion.
// Totals apply to the combined set of parcels the descriptor names.
type PackingListLine struct {
	Row             int
	PackingRef      string
	LineNo          int
	ItemCode        string
	ItemDescription string
	Qty             *float64
	Packaging       *float64
	ParcelN         string
	NbParcels       *int
	BatchNo         string
	ExpDate         string
	KgTotal         *float64
	Dm3Total        *float64
}

// ExpandedParcelRecord is one packing-list line narrowed to a single
// physical parcel. Qty, WeightKg and VolumeDm3 are per-parcel shares.
//
// @Description One record per physical parcel after range expansion
type ExpandedParcelRecord struct {
	ParcelNumber    string   `json:"parcel_number" example:"PK11"`
	PackingRef      string   `json:"packing_ref,omitempty" example:"PK1"`
	LineNo          int      `json:"line_no" example:"1"`
	ItemCode        string   `json:"item_code,omitempty" example:"DMEDPARA5T"`
	ItemDescription string   `json:"item_description,omitempty"`
	Qty             *float64 `json:"qty" example:"5"`
	Packaging       *float64 `json:"packaging"`
	ParcelN         string   `json:"parcel_n,omitempty" example:"1 to 2"`
	NbParcels       *int     `json:"nb_parcels"`
	BatchNo         string   `json:"batch_no,omitempty"`
	ExpDate         string   `json:"exp_date,omitempty"`
	WeightKg        *float64 `json:"weight_kg" example:"2"`
	VolumeDm3       *float64 `json:"volume_dm3"`
	ParcelNb        int      `json:"parcel_nb" example:"1"`
}

// MarshalJSON writes parcel_number as null when the line had no packing
// ref to build it from.
func (r ExpandedParcelRecord) MarshalJSON() ([]byte, error) {
	type record ExpandedParcelRecord
	return json.Marshal(struct {
		record
		ParcelNumber *string `json:"parcel_number"`
	}{record(r), nullableParcelNumber(r.ParcelNumber)})
}

func nullableParcelNumber(n string) *string {
	if n == "" {
		return nil
	}
	return &n
}

// SummaryRecord is one row of a cargo summary (transport manifest).
type SummaryRecord struct {
	ParcelNumber         string   `json:"parcel_number,omitempty"`
	TransportReception   string   `json:"transport_reception,omitempty"`
	SubFolder            string   `json:"sub_folder,omitempty"`
	FieldRef             string   `json:"field_ref,omitempty"`
	RefOpMSFL            string   `json:"ref_op_msfl,omitempty"`
	GoodsReception       string   `json:"goods_reception,omitempty"`
	ParcelNb             string   `json:"parcel_nb,omitempty"`
	WeightKg             *float64 `json:"weight_kg"`
	VolumeM3             *float64 `json:"volume_m3"`
	InvoiceCreditNoteRef string   `json:"invoice_credit_note_ref,omitempty"`
	EstimValueEU         *float64 `json:"estim_value_eu"`
}

// SkipUnparseableRange is reported for a line whose parcel descriptor holds
// no usable number.
const SkipUnparseableRange = "unparseable_parcel_range"

// WarnDeclaredCountMismatch flags a declared parcel count that disagrees
// with the span of the parcel range.
const WarnDeclaredCountMismatch = "declared_count_mismatch"

// SkippedLine reports a data row that contributed no records.
type SkippedLine struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

// ImportWarning flags a row that was imported with a questionable value.
type ImportWarning struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportReport is the outcome of parsing one uploaded sheet.
type ImportReport struct {
	Kind      SheetKind              `json:"kind"`
	HeaderRow int                    `json:"header_row"`
	Columns   ColumnMap              `json:"columns"`
	Records   []ExpandedParcelRecord `json:"records,omitempty"`
	Summary   []SummaryRecord        `json:"summary,omitempty"`
	Skipped   []SkippedLine          `json:"skipped"`
	Warnings  []ImportWarning        `json:"warnings"`
}

// RecordCount returns the number of records the sheet produced.
func (r ImportReport) RecordCount() int {
	if r.Kind == SheetKindSummary {
		return len(r.Summary)
	}
	return len(r.Records)
}

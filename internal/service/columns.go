package service

import (
	"strings"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// Canonical packing-list fields.
const (
	FieldPackingRef      = "packing_ref"
	FieldLineNo          = "line_no"
	FieldItemCode        = "item_code"
	FieldItemDescription = "item_description"
	FieldQty             = "qty"
	FieldPackaging       = "packaging"
	FieldParcelN         = "parcel_n"
	FieldNbParcels       = "nb_parcels"
	FieldBatchNo         = "batch_no"
	FieldExpDate         = "exp_date"
	FieldKgTotal         = "kg_total"
	FieldDm3Total        = "dm3_total"
)

// Canonical cargo-summary fields.
const (
	FieldTransportReception   = "transport_reception"
	FieldSubFolder            = "sub_folder"
	FieldFieldRef             = "field_ref"
	FieldRefOpMSFL            = "ref_op_msfl"
	FieldGoodsReception       = "goods_reception"
	FieldParcelNb             = "parcel_nb"
	FieldWeightKg             = "weight_kg"
	FieldVolumeM3             = "volume_m3"
	FieldInvoiceCreditNoteRef = "invoice_credit_note_ref"
	FieldEstimValueEU         = "estim_value_eu"
)

// FieldSpec lists the header fragments accepted for a canonical field,
// in order of preference.
type FieldSpec struct {
	Field      string
	Candidates []string
}

// PackingListFields are the header candidates of a packing list.
// "Weight" and "Volume" cover exports that drop the "(total)" suffix.
var PackingListFields = []FieldSpec{
	{FieldPackingRef, []string{"Packing ref", "Packingref", "Packing_ref"}},
	{FieldLineNo, []string{"Line no", "Lineno", "Line_no", "Line"}},
	{FieldItemCode, []string{"Item code", "Itemcode", "Item_code"}},
	{FieldItemDescription, []string{"Item description", "Description", "Itemdescription"}},
	{FieldQty, []string{"Qty unit", "Qty unit. tot", "Qty", "Quantity"}},
	{FieldPackaging, []string{"Packaging"}},
	{FieldParcelN, []string{"Parcel n°", "Parcel no", "Parceln", "Parcel_n"}},
	{FieldNbParcels, []string{"Nb parcels", "Nbparcels", "Nb_parcels"}},
	{FieldBatchNo, []string{"Batch no", "Batchno", "Batch_no", "Batch"}},
	{FieldExpDate, []string{"Exp. date", "Expdate", "Exp_date", "Expiry"}},
	{FieldKgTotal, []string{"Kg (total)", "Kg total", "Kgtotal", "Weight"}},
	{FieldDm3Total, []string{"dm3 (total)", "dm3", "Dm3", "Volume"}},
}

// SummaryFields are the header candidates of a cargo summary.
var SummaryFields = []FieldSpec{
	{FieldTransportReception, []string{"Transport reception", "Transport"}},
	{FieldSubFolder, []string{"Sub folder", "Subfolder"}},
	{FieldFieldRef, []string{"Field ref", "Field ref.", "Fieldref"}},
	{FieldRefOpMSFL, []string{"Ref op MSFL", "Ref op", "MSFL"}},
	{FieldGoodsReception, []string{"Goods reception", "Goodsreception", "Packing ref"}},
	{FieldParcelNb, []string{"Parcel nb", "Parcel nb.", "Parcelnb"}},
	{FieldWeightKg, []string{"Weight", "Weight (kg)", "Weightkg"}},
	{FieldVolumeM3, []string{"Volume", "Volume (m3)", "Volumem3"}},
	{FieldInvoiceCreditNoteRef, []string{"Invoice", "Invoice/credit", "Invoiceref"}},
	{FieldEstimValueEU, []string{"Estim", "value", "Estimvalue"}},
}

// NormalizeHeader lower-cases s and drops every character outside [a-z0-9].
func NormalizeHeader(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FindColumn returns the index of the first header whose normalized form
// contains a normalized candidate. Candidates are tried in order; the first
// matching header in reading order wins. Returns model.ColumnNotFound when
// no candidate matches.
func FindColumn(headers []string, candidates ...string) int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	return findNormalized(normalized, candidates)
}

func findNormalized(headers, candidates []string) int {
	for _, c := range candidates {
		needle := NormalizeHeader(c)
		if needle == "" {
			continue
		}
		for i, h := range headers {
			if strings.Contains(h, needle) {
				return i
			}
		}
	}
	return model.ColumnNotFound
}

// BuildColumnMap resolves every field of specs against headers.
// Unmatched fields map to model.ColumnNotFound.
func BuildColumnMap(headers []string, specs []FieldSpec) model.ColumnMap {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	m := make(model.ColumnMap, len(specs))
	for _, spec := range specs {
		m[spec.Field] = findNormalized(normalized, spec.Candidates)
	}
	return m
}

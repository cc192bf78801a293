package service

import "github.com/guttosm/cargo-service/internal/domain/model"

// ParseSummary reads cargo-summary data rows through columns. Blank rows are
// dropped. The parcel number is the goods-reception reference followed by
// the parcel number column, or whichever of the two is present.
func ParseSummary(rows []model.Row, columns model.ColumnMap) []model.SummaryRecord {
	text := func(row model.Row, field string) string {
		return cellText(cellAt(row, columns.Index(field)))
	}
	number := func(row model.Row, field string) *float64 {
		return optionalNumber(cellAt(row, columns.Index(field)))
	}

	out := make([]model.SummaryRecord, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}

		goods := text(row, FieldGoodsReception)
		nb := text(row, FieldParcelNb)

		out = append(out, model.SummaryRecord{
			ParcelNumber:         goods + nb,
			TransportReception:   text(row, FieldTransportReception),
			SubFolder:            text(row, FieldSubFolder),
			FieldRef:             text(row, FieldFieldRef),
			RefOpMSFL:            text(row, FieldRefOpMSFL),
			GoodsReception:       goods,
			ParcelNb:             nb,
			WeightKg:             number(row, FieldWeightKg),
			VolumeM3:             number(row, FieldVolumeM3),
			InvoiceCreditNoteRef: text(row, FieldInvoiceCreditNoteRef),
			EstimValueEU:         number(row, FieldEstimValueEU),
		})
	}
	return out
}

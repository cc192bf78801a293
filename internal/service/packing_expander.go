package service

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// ShareDecimals is the precision of per-parcel quantity, weight and volume.
const ShareDecimals = 4

// ExpansionResult holds the records of an expanded packing list together
// with the lines that produced none and the lines worth a second look.
type ExpansionResult struct {
	Records  []model.ExpandedParcelRecord
	Skipped  []model.SkippedLine
	Warnings []model.ImportWarning
}

// ParsePackingList reads packing-list data rows through columns. Blank rows
// are dropped. firstRow is the 1-based sheet row number of rows[0]; it is
// only used for reporting.
func ParsePackingList(rows []model.Row, columns model.ColumnMap, firstRow int) []model.PackingListLine {
	text := func(row model.Row, field string) string {
		return cellText(cellAt(row, columns.Index(field)))
	}
	cell := func(row model.Row, field string) any {
		return cellAt(row, columns.Index(field))
	}

	lines := make([]model.PackingListLine, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}

		lineNo := i + 1
		if n := optionalInt(cell(row, FieldLineNo)); n != nil {
			lineNo = *n
		}

		lines = append(lines, model.PackingListLine{
			Row:             firstRow + i,
			PackingRef:      text(row, FieldPackingRef),
			LineNo:          lineNo,
			ItemCode:        text(row, FieldItemCode),
			ItemDescription: text(row, FieldItemDescription),
			Qty:             optionalNumber(cell(row, FieldQty)),
			Packaging:       optionalNumber(cell(row, FieldPackaging)),
			ParcelN:         text(row, FieldParcelN),
			NbParcels:       optionalInt(cell(row, FieldNbParcels)),
			BatchNo:         text(row, FieldBatchNo),
			ExpDate:         expiryText(cell(row, FieldExpDate)),
			KgTotal:         optionalNumber(cell(row, FieldKgTotal)),
			Dm3Total:        optionalNumber(cell(row, FieldDm3Total)),
		})
	}
	return lines
}

// ExpandPackingList emits one record per physical parcel named by each
// line's descriptor, in line order then index order. Totals are divided by
// the declared parcel count when it exceeds one, otherwise by the number of
// parcels in the range. Lines without a resolvable parcel are reported in
// Skipped and produce no record. The input is not modified.
func ExpandPackingList(lines []model.PackingListLine) ExpansionResult {
	res := ExpansionResult{
		Records:  make([]model.ExpandedParcelRecord, 0, len(lines)),
		Skipped:  []model.SkippedLine{},
		Warnings: []model.ImportWarning{},
	}

	for _, line := range lines {
		indices := ParseParcelRange(line.ParcelN)
		valid := countResolved(indices)
		if valid == 0 {
			res.Skipped = append(res.Skipped, model.SkippedLine{
				Row:    line.Row,
				Reason: model.SkipUnparseableRange,
				Value:  line.ParcelN,
			})
			continue
		}

		divisor := 1
		switch {
		case line.NbParcels != nil && *line.NbParcels > 1:
			divisor = *line.NbParcels
			if valid > 1 && valid != divisor {
				res.Warnings = append(res.Warnings, model.ImportWarning{
					Row:  line.Row,
					Code: model.WarnDeclaredCountMismatch,
					Message: fmt.Sprintf("declared %d parcels but %q names %d; totals divided by %d",
						divisor, line.ParcelN, valid, divisor),
				})
			}
		case valid > 1:
			divisor = valid
		}

		div := decimal.NewFromInt(int64(divisor))
		qty := divideShare(line.Qty, div)
		kg := divideShare(line.KgTotal, div)
		dm3 := divideShare(line.Dm3Total, div)

		for _, p := range indices {
			if p == model.UnresolvedParcel {
				continue
			}
			res.Records = append(res.Records, model.ExpandedParcelRecord{
				ParcelNumber:    parcelNumber(line.PackingRef, p),
				PackingRef:      line.PackingRef,
				LineNo:          line.LineNo,
				ItemCode:        line.ItemCode,
				ItemDescription: line.ItemDescription,
				Qty:             cloneFloat(qty),
				Packaging:       cloneFloat(line.Packaging),
				ParcelN:         line.ParcelN,
				NbParcels:       cloneInt(line.NbParcels),
				BatchNo:         line.BatchNo,
				ExpDate:         line.ExpDate,
				WeightKg:        cloneFloat(kg),
				VolumeDm3:       cloneFloat(dm3),
				ParcelNb:        p,
			})
		}
	}
	return res
}

// parcelNumber concatenates the packing reference and the parcel index
// without a separator ("PK100" + 3 = "PK1003"). Empty when ref is empty.
func parcelNumber(ref string, index int) string {
	if ref == "" || index == model.UnresolvedParcel {
		return ""
	}
	return ref + strconv.Itoa(index)
}

// divideShare returns v / div rounded half away from zero to ShareDecimals.
func divideShare(v *float64, div decimal.Decimal) *float64 {
	if v == nil {
		return nil
	}
	f := decimal.NewFromFloat(*v).Div(div).Round(ShareDecimals).InexactFloat64()
	return &f
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

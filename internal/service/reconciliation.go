package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// StatusMap maps parcel numbers to their known lifecycle status.
type StatusMap map[string]model.ParcelStatus

// Of returns the status of parcel, pending when unknown.
func (m StatusMap) Of(parcel string) model.ParcelStatus {
	return m[parcel].OrPending()
}

// GroupKey identifies the item/batch/expiry rows of a project.
func GroupKey(project, packingRef, itemCode, batchNo, expDate string) string {
	return strings.Join([]string{project, packingRef, itemCode, batchNo, expDate}, "||")
}

// GroupParcelItems groups items by project, packing reference, item code,
// batch and expiry, in first-seen order. Each group lists its parcel numbers
// once, in first-seen order, even when a parcel holds several lines of the
// same item.
func GroupParcelItems(items []model.ParcelItem) []model.ParcelGroup {
	index := make(map[string]int)
	groups := make([]model.ParcelGroup, 0)
	totals := make([]decimal.Decimal, 0)
	seen := make([]map[string]struct{}, 0)

	for _, it := range items {
		key := GroupKey(it.ProjectCode, it.PackingRef, it.ItemCode, it.BatchNo, it.ExpDate)
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, model.ParcelGroup{
				Key:             key,
				ProjectCode:     it.ProjectCode,
				PackingRef:      it.PackingRef,
				ItemCode:        it.ItemCode,
				ItemDescription: it.ItemDescription,
				BatchNo:         it.BatchNo,
				ExpDate:         it.ExpDate,
				Parcels:         []string{},
			})
			totals = append(totals, decimal.Zero)
			seen = append(seen, make(map[string]struct{}))
		}

		if it.Qty != nil {
			totals[gi] = totals[gi].Add(decimal.NewFromFloat(*it.Qty))
		}
		if it.ParcelNumber == "" {
			continue
		}
		if _, dup := seen[gi][it.ParcelNumber]; dup {
			continue
		}
		seen[gi][it.ParcelNumber] = struct{}{}
		groups[gi].Parcels = append(groups[gi].Parcels, it.ParcelNumber)
	}

	for i := range groups {
		groups[i].TotalQty = totals[i].Round(ShareDecimals).InexactFloat64()
	}
	return groups
}

// GroupFilter narrows the groups shown on the dispatch map.
type GroupFilter struct {
	ProjectCode string
	Search      string
}

// FilterGroups keeps the groups of the filter's project whose item code,
// description or packing reference contains the search text.
func FilterGroups(groups []model.ParcelGroup, f GroupFilter) []model.ParcelGroup {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.ParcelGroup, 0, len(groups))
	for _, g := range groups {
		if f.ProjectCode != "" && g.ProjectCode != f.ProjectCode {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(g.ItemCode), search) &&
			!strings.Contains(strings.ToLower(g.ItemDescription), search) &&
			!strings.Contains(strings.ToLower(g.PackingRef), search) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// DisplayStatusFor decides how a parcel tile is rendered. A dispatched
// parcel always shows as dispatched; otherwise a selected parcel shows as
// selected; otherwise the base status is shown.
func DisplayStatusFor(parcel string, base model.ParcelStatus, sel *Selection) model.DisplayStatus {
	base = base.OrPending()
	if base == model.ParcelDispatched {
		return model.DisplayDispatched
	}
	if sel.Contains(parcel) {
		return model.DisplaySelected
	}
	return model.DisplayStatus(base)
}

// BuildTiles renders one tile per distinct parcel of group.
func BuildTiles(group model.ParcelGroup, statuses StatusMap, sel *Selection) []model.ParcelTile {
	tiles := make([]model.ParcelTile, 0, len(group.Parcels))
	seen := make(map[string]struct{}, len(group.Parcels))
	for _, p := range group.Parcels {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		base := statuses.Of(p)
		display := DisplayStatusFor(p, base, sel)
		tiles = append(tiles, model.ParcelTile{
			ParcelNumber:  p,
			BaseStatus:    base,
			DisplayStatus: display,
			Selectable:    display == model.DisplaySelected || base == model.ParcelReceived,
		})
	}
	return tiles
}

// BuildParcelMap groups items and renders their tiles.
func BuildParcelMap(items []model.ParcelItem, statuses StatusMap, sel *Selection, f GroupFilter) []model.GroupTiles {
	groups := FilterGroups(GroupParcelItems(items), f)
	out := make([]model.GroupTiles, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.GroupTiles{ParcelGroup: g, Tiles: BuildTiles(g, statuses, sel)})
	}
	return out
}

// MergeParcels reconciles expanded packing-list records with the cargo
// summary and the status registry. Parcels appear in packing-list order,
// followed by parcels only the summary knows. Status defaults to pending.
func MergeParcels(records []model.ExpandedParcelRecord, summary []model.SummaryRecord, registry map[string]model.Parcel) []model.ParcelOverview {
	index := make(map[string]int)
	out := make([]model.ParcelOverview, 0)
	qty := make([]decimal.Decimal, 0)
	kg := make([]decimal.Decimal, 0)
	hasKg := make([]bool, 0)

	at := func(parcel, packingRef string) int {
		if i, ok := index[parcel]; ok {
			return i
		}
		index[parcel] = len(out)
		out = append(out, model.ParcelOverview{ParcelNumber: parcel, PackingRef: packingRef})
		qty = append(qty, decimal.Zero)
		kg = append(kg, decimal.Zero)
		hasKg = append(hasKg, false)
		return len(out) - 1
	}

	for _, r := range records {
		if r.ParcelNumber == "" {
			continue
		}
		i := at(r.ParcelNumber, r.PackingRef)
		out[i].InPackingList = true
		out[i].ItemCount++
		if r.Qty != nil {
			qty[i] = qty[i].Add(decimal.NewFromFloat(*r.Qty))
		}
		if r.WeightKg != nil {
			kg[i] = kg[i].Add(decimal.NewFromFloat(*r.WeightKg))
			hasKg[i] = true
		}
	}

	for _, s := range summary {
		if s.ParcelNumber == "" {
			continue
		}
		i := at(s.ParcelNumber, s.GoodsReception)
		out[i].InSummary = true
		out[i].TransportReception = s.TransportReception
		if s.WeightKg != nil {
			out[i].WeightKg = cloneFloat(s.WeightKg)
		}
		if s.VolumeM3 != nil {
			out[i].VolumeM3 = cloneFloat(s.VolumeM3)
		}
	}

	for i := range out {
		out[i].TotalQty = qty[i].Round(ShareDecimals).InexactFloat64()
		if out[i].WeightKg == nil && hasKg[i] {
			w := kg[i].Round(ShareDecimals).InexactFloat64()
			out[i].WeightKg = &w
		}

		reg, ok := registry[out[i].ParcelNumber]
		out[i].Status = reg.Status.OrPending()
		if ok {
			out[i].ReceptionNumber = reg.ReceptionNumber
			out[i].Note = reg.Note
		}
	}
	return out
}

// Stats counts the parcels of an overview per status.
func Stats(parcels []model.ParcelOverview) model.ParcelStats {
	var st model.ParcelStats
	for _, p := range parcels {
		st.Add(p.Status)
	}
	return st
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

func item(project, parcel, code, batch string, qty float64) model.ParcelItem {
	return model.ParcelItem{
		ProjectCode: project,
		ExpandedParcelRecord: model.ExpandedParcelRecord{
			ParcelNumber: parcel,
			PackingRef:   "PK1",
			ItemCode:     code,
			BatchNo:      batch,
			ExpDate:      "05-Mar-2027",
			Qty:          &qty,
		},
	}
}

func TestGroupParcelItems(t *testing.T) {
	items := []model.ParcelItem{
		item("P1", "A1", "PARA", "B1", 5),
		item("P1", "A2", "AMOX", "B9", 1),
		item("P1", "A1", "PARA", "B1", 2.5),
		item("P1", "A3", "PARA", "B1", 5),
		item("P2", "A9", "PARA", "B1", 5),
		item("P1", "", "PARA", "B1", 1),
	}

	groups := GroupParcelItems(items)

	require.Len(t, groups, 3)
	assert.Equal(t, "PARA", groups[0].ItemCode)
	assert.Equal(t, []string{"A1", "A3"}, groups[0].Parcels)
	assert.Equal(t, 13.5, groups[0].TotalQty)
	assert.Equal(t, GroupKey("P1", "PK1", "PARA", "B1", "05-Mar-2027"), groups[0].Key)

	assert.Equal(t, "AMOX", groups[1].ItemCode)
	assert.Equal(t, "P2", groups[2].ProjectCode)
}

func TestGroupParcelItems_Empty(t *testing.T) {
	assert.Empty(t, GroupParcelItems(nil))
}

func TestFilterGroups(t *testing.T) {
	groups := []model.ParcelGroup{
		{ProjectCode: "P1", ItemCode: "PARA500", ItemDescription: "Paracetamol"},
		{ProjectCode: "P1", ItemCode: "AMOX250", ItemDescription: "Amoxicillin"},
		{ProjectCode: "P2", ItemCode: "PARA500", ItemDescription: "Paracetamol"},
	}

	assert.Len(t, FilterGroups(groups, GroupFilter{}), 3)
	assert.Len(t, FilterGroups(groups, GroupFilter{ProjectCode: "P1"}), 2)
	assert.Len(t, FilterGroups(groups, GroupFilter{Search: "paracet"}), 2)

	got := FilterGroups(groups, GroupFilter{ProjectCode: "P1", Search: " amox "})
	require.Len(t, got, 1)
	assert.Equal(t, "AMOX250", got[0].ItemCode)
}

func TestDisplayStatusFor(t *testing.T) {
	sel := NewSelection("A1", "D1")

	tests := []struct {
		parcel string
		base   model.ParcelStatus
		want   model.DisplayStatus
	}{
		{"A1", model.ParcelReceived, model.DisplaySelected},
		{"D1", model.ParcelDispatched, model.DisplayDispatched},
		{"B1", model.ParcelReceived, model.DisplayReceived},
		{"C1", model.ParcelPending, model.DisplayPending},
		{"E1", "", model.DisplayPending},
	}

	for _, tt := range tests {
		t.Run(tt.parcel, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayStatusFor(tt.parcel, tt.base, sel))
		})
	}
}

func TestBuildTiles(t *testing.T) {
	group := model.ParcelGroup{Parcels: []string{"A1", "B1", "A1", "C1", "D1"}}
	statuses := StatusMap{
		"A1": model.ParcelReceived,
		"B1": model.ParcelReceived,
		"D1": model.ParcelDispatched,
	}

	tiles := BuildTiles(group, statuses, NewSelection("A1"))

	require.Len(t, tiles, 4)
	assert.Equal(t, model.ParcelTile{ParcelNumber: "A1", BaseStatus: model.ParcelReceived, DisplayStatus: model.DisplaySelected, Selectable: true}, tiles[0])
	assert.Equal(t, model.ParcelTile{ParcelNumber: "B1", BaseStatus: model.ParcelReceived, DisplayStatus: model.DisplayReceived, Selectable: true}, tiles[1])
	assert.Equal(t, model.ParcelTile{ParcelNumber: "C1", BaseStatus: model.ParcelPending, DisplayStatus: model.DisplayPending}, tiles[2])
	assert.Equal(t, model.ParcelTile{ParcelNumber: "D1", BaseStatus: model.ParcelDispatched, DisplayStatus: model.DisplayDispatched}, tiles[3])
}

func TestBuildParcelMap_DedupesParcelsWithinGroup(t *testing.T) {
	items := []model.ParcelItem{
		item("P1", "A1", "PARA", "B1", 1),
		item("P1", "A1", "PARA", "B1", 1),
	}

	groups := BuildParcelMap(items, StatusMap{"A1": model.ParcelReceived}, nil, GroupFilter{})

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Tiles, 1)
	assert.Equal(t, "A1", groups[0].Tiles[0].ParcelNumber)
}

func TestMergeParcels(t *testing.T) {
	records := []model.ExpandedParcelRecord{
		{ParcelNumber: "PK11", PackingRef: "PK1", Qty: f64(5), WeightKg: f64(2)},
		{ParcelNumber: "PK11", PackingRef: "PK1", Qty: f64(1), WeightKg: f64(0.5)},
		{ParcelNumber: "PK12", PackingRef: "PK1", Qty: f64(5)},
		{ParcelNumber: "", PackingRef: ""},
	}
	summary := []model.SummaryRecord{
		{ParcelNumber: "PK12", GoodsReception: "PK1", TransportReception: "TR-1", WeightKg: f64(7), VolumeM3: f64(0.1)},
		{ParcelNumber: "PK13", GoodsReception: "PK1", TransportReception: "TR-1"},
	}
	registry := map[string]model.Parcel{
		"PK11": {ParcelNumber: "PK11", Status: model.ParcelReceived, ReceptionNumber: "REC-1", Note: "dented"},
		"PK13": {ParcelNumber: "PK13", Status: model.ParcelDispatched},
	}

	got := MergeParcels(records, summary, registry)

	require.Len(t, got, 3)

	assert.Equal(t, "PK11", got[0].ParcelNumber)
	assert.True(t, got[0].InPackingList)
	assert.False(t, got[0].InSummary)
	assert.Equal(t, 2, got[0].ItemCount)
	assert.Equal(t, 6.0, got[0].TotalQty)
	assert.Equal(t, 2.5, *got[0].WeightKg)
	assert.Equal(t, model.ParcelReceived, got[0].Status)
	assert.Equal(t, "REC-1", got[0].ReceptionNumber)
	assert.Equal(t, "dented", got[0].Note)

	assert.Equal(t, "PK12", got[1].ParcelNumber)
	assert.True(t, got[1].InSummary)
	assert.Equal(t, 7.0, *got[1].WeightKg)
	assert.Equal(t, "TR-1", got[1].TransportReception)
	assert.Equal(t, model.ParcelPending, got[1].Status)

	assert.Equal(t, "PK13", got[2].ParcelNumber)
	assert.False(t, got[2].InPackingList)
	assert.Equal(t, model.ParcelDispatched, got[2].Status)

	assert.Equal(t, model.ParcelStats{Total: 3, Pending: 1, Received: 1, Dispatched: 1}, Stats(got))
}

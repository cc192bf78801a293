package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParcelStatus_OrPending(t *testing.T) {
	tests := []struct {
		name   string
		status ParcelStatus
		want   ParcelStatus
	}{
		{"pending", ParcelPending, ParcelPending},
		{"received", ParcelReceived, ParcelReceived},
		{"dispatched", ParcelDispatched, ParcelDispatched},
		{"empty defaults to pending", "", ParcelPending},
		{"unknown defaults to pending", "lost", ParcelPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.OrPending())
		})
	}
}

func TestParcelStats_Add(t *testing.T) {
	var st ParcelStats
	for _, s := range []ParcelStatus{ParcelPending, ParcelReceived, ParcelReceived, ParcelDispatched, ""} {
		st.Add(s)
	}

	assert.Equal(t, ParcelStats{Total: 5, Pending: 2, Received: 2, Dispatched: 1}, st)
}

func TestColumnMap_Index(t *testing.T) {
	m := ColumnMap{"packing_ref": 0, "qty": 2}

	assert.Equal(t, 2, m.Index("qty"))
	assert.Equal(t, ColumnNotFound, m.Index("batch_no"))
	assert.True(t, m.Has("packing_ref"))
	assert.False(t, m.Has("kg_total"))
}

func TestImportReport_RecordCount(t *testing.T) {
	packing := ImportReport{Kind: SheetKindPacking, Records: make([]ExpandedParcelRecord, 3)}
	summary := ImportReport{Kind: SheetKindSummary, Summary: make([]SummaryRecord, 2)}

	assert.Equal(t, 3, packing.RecordCount())
	assert.Equal(t, 2, summary.RecordCount())
}

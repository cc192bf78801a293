// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/service"
	"github.com/guttosm/cargo-service/internal/service/cache"
)

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Import(kind model.SheetKind, rows []model.Row) (model.ImportReport, error) {
	args := m.Called(kind, rows)
	report, _ := args.Get(0).(model.ImportReport)
	return report, args.Error(1)
}

func (m *MockImporter) Kinds() []model.SheetKind {
	args := m.Called()
	kinds, _ := args.Get(0).([]model.SheetKind)
	return kinds
}

func (m *MockImporter) InvalidateCache() {
	m.Called()
}

func (m *MockImporter) CacheMetrics() (cache.Metrics, bool) {
	args := m.Called()
	metrics, _ := args.Get(0).(cache.Metrics)
	return metrics, args.Bool(1)
}

type MockCargoService struct {
	mock.Mock
}

func (m *MockCargoService) ImportPackingList(ctx context.Context, in service.ImportInput) (*service.ImportResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.ImportResult)
	return res, args.Error(1)
}

func (m *MockCargoService) ImportSummary(ctx context.Context, in service.ImportInput) (*service.ImportResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.ImportResult)
	return res, args.Error(1)
}

func (m *MockCargoService) Overview(ctx context.Context, sessionID string) ([]model.ParcelOverview, error) {
	args := m.Called(ctx, sessionID)
	res, _ := args.Get(0).([]model.ParcelOverview)
	return res, args.Error(1)
}

func (m *MockCargoService) ParcelItems(ctx context.Context, parcelNumber string) ([]model.ParcelItem, error) {
	args := m.Called(ctx, parcelNumber)
	return parcelItems(args.Get(0)), args.Error(1)
}

func (m *MockCargoService) Stats(ctx context.Context, sessionID string) (model.ParcelStats, error) {
	args := m.Called(ctx, sessionID)
	st, _ := args.Get(0).(model.ParcelStats)
	return st, args.Error(1)
}

func (m *MockCargoService) ReceiveParcel(ctx context.Context, in service.ReceiveInput) (*model.Parcel, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*model.Parcel)
	return p, args.Error(1)
}

func (m *MockCargoService) UnreceiveParcel(ctx context.Context, parcelNumber string) (*model.Parcel, error) {
	args := m.Called(ctx, parcelNumber)
	p, _ := args.Get(0).(*model.Parcel)
	return p, args.Error(1)
}

func (m *MockCargoService) SetParcelNote(ctx context.Context, parcelNumber, note string) error {
	args := m.Called(ctx, parcelNumber, note)
	return args.Error(0)
}

type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) Tiles(in service.TilesInput) []model.GroupTiles {
	args := m.Called(in)
	groups, _ := args.Get(0).([]model.GroupTiles)
	return groups
}

func (m *MockDispatchService) Toggle(in service.ToggleInput) (*service.ToggleResult, error) {
	args := m.Called(in)
	res, _ := args.Get(0).(*service.ToggleResult)
	return res, args.Error(1)
}

func (m *MockDispatchService) CreateCart(ctx context.Context, projectCode, sessionID string) (*model.DispatchCart, error) {
	args := m.Called(ctx, projectCode, sessionID)
	cart, _ := args.Get(0).(*model.DispatchCart)
	return cart, args.Error(1)
}

func (m *MockDispatchService) Cart(ctx context.Context, id string, f service.GroupFilter) (*service.CartView, error) {
	args := m.Called(ctx, id, f)
	view, _ := args.Get(0).(*service.CartView)
	return view, args.Error(1)
}

func (m *MockDispatchService) ToggleCart(ctx context.Context, id, parcelNumber string) (*service.ToggleResult, error) {
	args := m.Called(ctx, id, parcelNumber)
	res, _ := args.Get(0).(*service.ToggleResult)
	return res, args.Error(1)
}

func (m *MockDispatchService) Confirm(ctx context.Context, id string) (*service.ConfirmResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*service.ConfirmResult)
	return res, args.Error(1)
}

func (m *MockDispatchService) Export(ctx context.Context, id string, w io.Writer) error {
	args := m.Called(ctx, id, w)
	return args.Error(0)
}

type MockLoggingService struct {
	mock.Mock
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	entries, _ := args.Get(0).([]model.LogEntry)
	return entries, args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

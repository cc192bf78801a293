// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/repository"
)

type MockParcelItemRepository struct {
	mock.Mock
}

func (m *MockParcelItemRepository) InsertMany(ctx context.Context, items []model.ParcelItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockParcelItemRepository) DeleteByPackingRefs(ctx context.Context, sessionID string, refs []string) (int64, error) {
	args := m.Called(ctx, sessionID, refs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelItemRepository) FindBySession(ctx context.Context, sessionID string) ([]model.ParcelItem, error) {
	args := m.Called(ctx, sessionID)
	return parcelItems(args.Get(0)), args.Error(1)
}

func (m *MockParcelItemRepository) FindByParcel(ctx context.Context, parcelNumber string) ([]model.ParcelItem, error) {
	args := m.Called(ctx, parcelNumber)
	return parcelItems(args.Get(0)), args.Error(1)
}

func (m *MockParcelItemRepository) FindByProject(ctx context.Context, projectCode string) ([]model.ParcelItem, error) {
	args := m.Called(ctx, projectCode)
	return parcelItems(args.Get(0)), args.Error(1)
}

func (m *MockParcelItemRepository) FindByParcels(ctx context.Context, parcelNumbers []string) ([]model.ParcelItem, error) {
	args := m.Called(ctx, parcelNumbers)
	return parcelItems(args.Get(0)), args.Error(1)
}

func parcelItems(v any) []model.ParcelItem {
	if v == nil {
		return nil
	}
	return v.([]model.ParcelItem)
}

type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) InsertMany(ctx context.Context, sessionID string, records []model.SummaryRecord) error {
	args := m.Called(ctx, sessionID, records)
	return args.Error(0)
}

func (m *MockSummaryRepository) FindBySession(ctx context.Context, sessionID string) ([]model.SummaryRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SummaryRecord), args.Error(1)
}

type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) Register(ctx context.Context, parcels []model.Parcel) error {
	args := m.Called(ctx, parcels)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, parcelNumber string) (*model.Parcel, error) {
	args := m.Called(ctx, parcelNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) FindByNumbers(ctx context.Context, parcelNumbers []string) ([]model.Parcel, error) {
	args := m.Called(ctx, parcelNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) Transition(ctx context.Context, parcelNumber string, change repository.StatusChange) (*model.Parcel, error) {
	args := m.Called(ctx, parcelNumber, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) SetNote(ctx context.Context, parcelNumber, note string) error {
	args := m.Called(ctx, parcelNumber, note)
	return args.Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Create(ctx context.Context, cart *model.DispatchCart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Get(ctx context.Context, id string) (*model.DispatchCart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DispatchCart), args.Error(1)
}

func (m *MockCartRepository) SaveParcels(ctx context.Context, id string, parcels []string) error {
	args := m.Called(ctx, id, parcels)
	return args.Error(0)
}

type MockLogsRepository struct {
	mock.Mock
}

func (m *MockLogsRepository) Create(ctx context.Context, entry *repository.LogEntryDocument) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogsRepository) CreateMany(ctx context.Context, entries []*repository.LogEntryDocument) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepository) Query(ctx context.Context, opts repository.LogQueryOptions) ([]*repository.LogEntryDocument, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.LogEntryDocument), args.Error(1)
}

func (m *MockLogsRepository) Count(ctx context.Context, opts repository.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

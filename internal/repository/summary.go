package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// SummaryDocument is a cargo-summary row as stored in MongoDB.
type SummaryDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	SessionID            string             `bson:"session_id"`
	ParcelNumber         string             `bson:"parcel_number,omitempty"`
	TransportReception   string             `bson:"transport_reception,omitempty"`
	SubFolder            string             `bson:"sub_folder,omitempty"`
	FieldRef             string             `bson:"field_ref,omitempty"`
	RefOpMSFL            string             `bson:"ref_op_msfl,omitempty"`
	GoodsReception       string             `bson:"goods_reception,omitempty"`
	ParcelNb             string             `bson:"parcel_nb,omitempty"`
	WeightKg             *float64           `bson:"weight_kg,omitempty"`
	VolumeM3             *float64           `bson:"volume_m3,omitempty"`
	InvoiceCreditNoteRef string             `bson:"invoice_credit_note_ref,omitempty"`
	EstimValueEU         *float64           `bson:"estim_value_eu,omitempty"`
	ImportedAt           time.Time          `bson:"imported_at"`
}

// Model converts the document back to its domain form.
func (d SummaryDocument) Model() model.SummaryRecord {
	return model.SummaryRecord{
		ParcelNumber:         d.ParcelNumber,
		TransportReception:   d.TransportReception,
		SubFolder:            d.SubFolder,
		FieldRef:             d.FieldRef,
		RefOpMSFL:            d.RefOpMSFL,
		GoodsReception:       d.GoodsReception,
		ParcelNb:             d.ParcelNb,
		WeightKg:             d.WeightKg,
		VolumeM3:             d.VolumeM3,
		InvoiceCreditNoteRef: d.InvoiceCreditNoteRef,
		EstimValueEU:         d.EstimValueEU,
	}
}

// SummaryRepository stores cargo-summary rows.
type SummaryRepository struct {
	collection *mongo.Collection
}

// NewSummaryRepository creates a new cargo summary repository.
func NewSummaryRepository(db *MongoDB) *SummaryRepository {
	return &SummaryRepository{collection: db.CargoSummary}
}

// InsertMany stores the rows of one summary import.
func (r *SummaryRepository) InsertMany(ctx context.Context, sessionID string, records []model.SummaryRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(records))
	for i, s := range records {
		docs[i] = SummaryDocument{
			ID:                   primitive.NewObjectID(),
			SessionID:            sessionID,
			ParcelNumber:         s.ParcelNumber,
			TransportReception:   s.TransportReception,
			SubFolder:            s.SubFolder,
			FieldRef:             s.FieldRef,
			RefOpMSFL:            s.RefOpMSFL,
			GoodsReception:       s.GoodsReception,
			ParcelNb:             s.ParcelNb,
			WeightKg:             s.WeightKg,
			VolumeM3:             s.VolumeM3,
			InvoiceCreditNoteRef: s.InvoiceCreditNoteRef,
			EstimValueEU:         s.EstimValueEU,
			ImportedAt:           now,
		}
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindBySession returns the summary rows of a session in import order.
func (r *SummaryRepository) FindBySession(ctx context.Context, sessionID string) ([]model.SummaryRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []SummaryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]model.SummaryRecord, len(docs))
	for i, d := range docs {
		out[i] = d.Model()
	}
	return out, nil
}

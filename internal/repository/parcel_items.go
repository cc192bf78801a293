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

// ParcelItemDocument is an expanded packing-list record as stored in MongoDB.
type ParcelItemDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	SessionID       string             `bson:"session_id"`
	ProjectCode     string             `bson:"project_code,omitempty"`
	ParcelNumber    string             `bson:"parcel_number,omitempty"`
	PackingRef      string             `bson:"packing_ref,omitempty"`
	LineNo          int                `bson:"line_no"`
	ItemCode        string             `bson:"item_code,omitempty"`
	ItemDescription string             `bson:"item_description,omitempty"`
	Qty             *float64           `bson:"qty,omitempty"`
	Packaging       *float64           `bson:"packaging,omitempty"`
	ParcelN         string             `bson:"parcel_n,omitempty"`
	NbParcels       *int               `bson:"nb_parcels,omitempty"`
	BatchNo         string             `bson:"batch_no,omitempty"`
	ExpDate         string             `bson:"exp_date,omitempty"`
	WeightKg        *float64           `bson:"weight_kg,omitempty"`
	VolumeDm3       *float64           `bson:"volume_dm3,omitempty"`
	ParcelNb        int                `bson:"parcel_nb"`
	ImportedAt      time.Time          `bson:"imported_at"`
}

func newParcelItemDocument(it model.ParcelItem, at time.Time) ParcelItemDocument {
	r := it.ExpandedParcelRecord
	return ParcelItemDocument{
		ID:              primitive.NewObjectID(),
		SessionID:       it.SessionID,
		ProjectCode:     it.ProjectCode,
		ParcelNumber:    r.ParcelNumber,
		PackingRef:      r.PackingRef,
		LineNo:          r.LineNo,
		ItemCode:        r.ItemCode,
		ItemDescription: r.ItemDescription,
		Qty:             r.Qty,
		Packaging:       r.Packaging,
		ParcelN:         r.ParcelN,
		NbParcels:       r.NbParcels,
		BatchNo:         r.BatchNo,
		ExpDate:         r.ExpDate,
		WeightKg:        r.WeightKg,
		VolumeDm3:       r.VolumeDm3,
		ParcelNb:        r.ParcelNb,
		ImportedAt:      at,
	}
}

// Model converts the document back to its domain form.
func (d ParcelItemDocument) Model() model.ParcelItem {
	return model.ParcelItem{
		SessionID:   d.SessionID,
		ProjectCode: d.ProjectCode,
		ExpandedParcelRecord: model.ExpandedParcelRecord{
			ParcelNumber:    d.ParcelNumber,
			PackingRef:      d.PackingRef,
			LineNo:          d.LineNo,
			ItemCode:        d.ItemCode,
			ItemDescription: d.ItemDescription,
			Qty:             d.Qty,
			Packaging:       d.Packaging,
			ParcelN:         d.ParcelN,
			NbParcels:       d.NbParcels,
			BatchNo:         d.BatchNo,
			ExpDate:         d.ExpDate,
			WeightKg:        d.WeightKg,
			VolumeDm3:       d.VolumeDm3,
			ParcelNb:        d.ParcelNb,
		},
	}
}

// ParcelItemRepository stores expanded packing-list records.
type ParcelItemRepository struct {
	collection *mongo.Collection
}

// NewParcelItemRepository creates a new parcel item repository.
func NewParcelItemRepository(db *MongoDB) *ParcelItemRepository {
	return &ParcelItemRepository{collection: db.ParcelItems}
}

// InsertMany stores items in one ordered bulk insert.
func (r *ParcelItemRepository) InsertMany(ctx context.Context, items []model.ParcelItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(items))
	for i, it := range items {
		docs[i] = newParcelItemDocument(it, now)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// DeleteByPackingRefs removes the items of a session imported under any of
// refs, so a re-imported packing list replaces its earlier lines.
func (r *ParcelItemRepository) DeleteByPackingRefs(ctx context.Context, sessionID string, refs []string) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	in := make(bson.A, 0, len(refs)+1)
	for _, ref := range refs {
		if ref == "" {
			// packing_ref is omitted when empty; null also matches a missing field.
			in = append(in, nil)
		}
		in = append(in, ref)
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"session_id": sessionID, "packing_ref": bson.M{"$in": in}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FindBySession returns the items of an import session in import order.
func (r *ParcelItemRepository) FindBySession(ctx context.Context, sessionID string) ([]model.ParcelItem, error) {
	return r.find(ctx, bson.M{"session_id": sessionID})
}

// FindByParcel returns the items packed in one parcel.
func (r *ParcelItemRepository) FindByParcel(ctx context.Context, parcelNumber string) ([]model.ParcelItem, error) {
	return r.find(ctx, bson.M{"parcel_number": parcelNumber})
}

// FindByProject returns every item imported for a project.
func (r *ParcelItemRepository) FindByProject(ctx context.Context, projectCode string) ([]model.ParcelItem, error) {
	return r.find(ctx, bson.M{"project_code": projectCode})
}

// FindByParcels returns the items packed in any of the listed parcels.
func (r *ParcelItemRepository) FindByParcels(ctx context.Context, parcelNumbers []string) ([]model.ParcelItem, error) {
	if len(parcelNumbers) == 0 {
		return []model.ParcelItem{}, nil
	}
	return r.find(ctx, bson.M{"parcel_number": bson.M{"$in": parcelNumbers}})
}

func (r *ParcelItemRepository) find(ctx context.Context, filter bson.M) ([]model.ParcelItem, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []ParcelItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]model.ParcelItem, len(docs))
	for i, d := range docs {
		items[i] = d.Model()
	}
	return items, nil
}

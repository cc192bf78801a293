package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// ParcelDocument is a parcel-status registry entry. The parcel number is
// the document id.
type ParcelDocument struct {
	ParcelNumber    string     `bson:"_id"`
	SessionID       string     `bson:"session_id,omitempty"`
	ProjectCode     string     `bson:"project_code,omitempty"`
	PackingRef      string     `bson:"packing_ref,omitempty"`
	Status          string     `bson:"status"`
	ReceptionNumber string     `bson:"reception_number,omitempty"`
	PalletNumber    string     `bson:"pallet_number,omitempty"`
	Note            string     `bson:"note,omitempty"`
	OrderType       string     `bson:"order_type,omitempty"`
	ExpDate         string     `bson:"exp_date,omitempty"`
	BatchNo         string     `bson:"batch_no,omitempty"`
	ReceivedAt      *time.Time `bson:"received_at,omitempty"`
	DispatchedAt    *time.Time `bson:"dispatched_at,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

// Model converts the document to its domain form.
func (d ParcelDocument) Model() model.Parcel {
	return model.Parcel{
		ParcelNumber:    d.ParcelNumber,
		SessionID:       d.SessionID,
		ProjectCode:     d.ProjectCode,
		PackingRef:      d.PackingRef,
		Status:          model.ParcelStatus(d.Status).OrPending(),
		ReceptionNumber: d.ReceptionNumber,
		PalletNumber:    d.PalletNumber,
		Note:            d.Note,
		OrderType:       d.OrderType,
		ExpDate:         d.ExpDate,
		BatchNo:         d.BatchNo,
		ReceivedAt:      d.ReceivedAt,
		DispatchedAt:    d.DispatchedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ParcelRepository is the MongoDB parcel-status registry.
type ParcelRepository struct {
	collection *mongo.Collection
}

// NewParcelRepository creates a new parcel registry repository.
func NewParcelRepository(db *MongoDB) *ParcelRepository {
	return &ParcelRepository{collection: db.Parcels}
}

// Register upserts parcels. New parcels start pending; known parcels keep
// their status and reception data.
func (r *ParcelRepository) Register(ctx context.Context, parcels []model.Parcel) error {
	if len(parcels) == 0 {
		return nil
	}
	now := time.Now().UTC()

	writes := make([]mongo.WriteModel, 0, len(parcels))
	for _, p := range parcels {
		if p.ParcelNumber == "" {
			continue
		}
		set := bson.M{"updated_at": now}
		if p.SessionID != "" {
			set["session_id"] = p.SessionID
		}
		if p.ProjectCode != "" {
			set["project_code"] = p.ProjectCode
		}
		if p.PackingRef != "" {
			set["packing_ref"] = p.PackingRef
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": p.ParcelNumber}).
			SetUpdate(bson.M{
				"$set":         set,
				"$setOnInsert": bson.M{"status": string(model.ParcelPending), "created_at": now},
			}).
			SetUpsert(true))
	}
	if len(writes) == 0 {
		return nil
	}

	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

// Get returns one registry entry or ErrNotFound.
func (r *ParcelRepository) Get(ctx context.Context, parcelNumber string) (*model.Parcel, error) {
	var doc ParcelDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": parcelNumber}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := doc.Model()
	return &p, nil
}

// FindByNumbers returns the registry entries of the listed parcels.
// Unknown parcels are absent from the result.
func (r *ParcelRepository) FindByNumbers(ctx context.Context, parcelNumbers []string) ([]model.Parcel, error) {
	if len(parcelNumbers) == 0 {
		return []model.Parcel{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": parcelNumbers}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []ParcelDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Parcel, len(docs))
	for i, d := range docs {
		out[i] = d.Model()
	}
	return out, nil
}

// Transition moves a parcel from change.From to change.To. It returns
// ErrNotFound for an unknown parcel and ErrStatusConflict when the parcel
// is in another status.
func (r *ParcelRepository) Transition(ctx context.Context, parcelNumber string, change StatusChange) (*model.Parcel, error) {
	var doc ParcelDocument
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": parcelNumber, "status": string(change.From)},
		transitionUpdate(change),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		n, cerr := r.collection.CountDocuments(ctx, bson.M{"_id": parcelNumber})
		if cerr != nil {
			return nil, cerr
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, err
	}
	p := doc.Model()
	return &p, nil
}

// SetNote replaces the note of a parcel.
func (r *ParcelRepository) SetNote(ctx context.Context, parcelNumber, note string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parcelNumber},
		bson.M{"$set": bson.M{"note": note, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func transitionUpdate(c StatusChange) bson.M {
	at := c.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	set := bson.M{"status": string(c.To), "updated_at": at}
	optional := map[string]string{
		"reception_number": c.ReceptionNumber,
		"pallet_number":    c.PalletNumber,
		"note":             c.Note,
		"order_type":       c.OrderType,
		"exp_date":         c.ExpDate,
		"batch_no":         c.BatchNo,
	}
	for k, v := range optional {
		if v != "" {
			set[k] = v
		}
	}

	update := bson.M{"$set": set}
	switch {
	case c.ClearReception:
		update["$unset"] = bson.M{"reception_number": "", "pallet_number": "", "received_at": ""}
	case c.To == model.ParcelReceived:
		set["received_at"] = at
	case c.To == model.ParcelDispatched:
		set["dispatched_at"] = at
	}
	return update
}

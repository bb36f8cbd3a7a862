package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

const collectionPassengers = "passengers"

type PassengerRepository struct {
	col *mongo.Collection
}

func NewPassengerRepository(db *mongo.Database) *PassengerRepository {
	return &PassengerRepository{col: db.Collection(collectionPassengers)}
}

// Create inserts a new manifest entry.
func (r *PassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPassengerExists
		}
		return fmt.Errorf("insert passenger: %w", err)
	}
	return nil
}

func (r *PassengerRepository) FindByID(ctx context.Context, id string) (*domain.Passenger, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Passenger
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPassengerNotFound
		}
		return nil, fmt.Errorf("find passenger: %w", err)
	}
	return &p, nil
}

// List returns a page of passengers matching f and the total match count.
func (r *PassengerRepository) List(ctx context.Context, f ports.ListPassengersFilter) ([]*domain.Passenger, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := passengerFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count passengers: %w", err)
	}

	opts := pageOptions(f.Page, f.Limit).SetSort(bson.D{{Key: "departure_date", Value: 1}, {Key: "full_name", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list passengers: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Passenger, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode passengers: %w", err)
	}
	return items, total, nil
}

func passengerFilter(f ports.ListPassengersFilter) bson.M {
	filter := bson.M{}
	if f.OwnerUserID != "" {
		filter["owner_user_id"] = f.OwnerUserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.FlightNumber != "" {
		filter["flight_number"] = f.FlightNumber
	}
	if f.Search != "" {
		pattern := primitiveRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"document_number": pattern},
		}
	}
	dates := bson.M{}
	if !f.DateFrom.IsZero() {
		dates["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		dates["$lte"] = f.DateTo.UTC()
	}
	if len(dates) > 0 {
		filter["departure_date"] = dates
	}
	return filter
}

func (r *PassengerRepository) Update(ctx context.Context, p *domain.Passenger) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPassengerExists
		}
		return fmt.Errorf("update passenger: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPassengerNotFound
	}
	return nil
}

func (r *PassengerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete passenger: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPassengerNotFound
	}
	return nil
}

func (r *PassengerRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"owner_user_id": from},
		bson.M{"$set": bson.M{"owner_user_id": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("reassign passengers: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *PassengerRepository) CountByStatus(ctx context.Context, ownerID string) (map[domain.PassengerStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.D{}
	if ownerID != "" {
		match = bson.D{{Key: "owner_user_id", Value: ownerID}}
	}
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$status"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count passengers by status: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode status counts: %w", err)
	}

	counts := make(map[domain.PassengerStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.PassengerStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// EnsureIndexes creates the manifest indexes, including the unique booking key.
func (r *PassengerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "flight_number", Value: 1},
				{Key: "departure_date", Value: 1},
				{Key: "document_number", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_booking"),
		},
		{Keys: bson.D{{Key: "owner_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("passenger indexes: %w", err)
	}
	return nil
}

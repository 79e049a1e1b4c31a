package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "staybook/internal/bookings/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	CountSearch(ctx context.Context, filter model.BookingFilter) (int64, error)
	FindOverlapping(ctx context.Context, propertyID string, rng model.DateRange, statuses []string, excludeID string) ([]*model.Booking, error)
	FindByProperty(ctx context.Context, propertyID string, statuses []string) ([]*model.Booking, error)
	DeleteByProperty(ctx context.Context, propertyID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	booking.UpdatedAt = mongotx.Now()
	update := bson.M{
		"$set": bson.M{
			"guest_name":  booking.GuestName,
			"guest_email": booking.GuestEmail,
			"guest_phone": booking.GuestPhone,
			"check_in":    booking.CheckIn,
			"check_out":   booking.CheckOut,
			"guests":      booking.Guests,
			"nights":      booking.Nights,
			"total_price": booking.TotalPrice,
			"status":      booking.Status,
			"notes":       booking.Notes,
			"updated_at":  booking.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *mongoBookingRepository) Search(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, buildSearchFilter(filter), limit, offset)
}

func (r *mongoBookingRepository) CountSearch(ctx context.Context, filter model.BookingFilter) (int64, error) {
	return r.count(ctx, buildSearchFilter(filter))
}

// FindOverlapping returns bookings in one of statuses whose stay overlaps rng.
func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, propertyID string, rng model.DateRange, statuses []string, excludeID string) ([]*model.Booking, error) {
	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": statuses},
		"check_in":    bson.M{"$lt": rng.End},
		"check_out":   bson.M{"$gt": rng.Start},
	}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return r.find(ctx, filter, 0, 0)
}

func (r *mongoBookingRepository) FindByProperty(ctx context.Context, propertyID string, statuses []string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": statuses},
	}, 0, 0)
}

func (r *mongoBookingRepository) DeleteByProperty(ctx context.Context, propertyID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings of property: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// find runs filter sorted by check-in. A zero limit returns every match.
func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit)).SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func buildSearchFilter(f model.BookingFilter) bson.M {
	filter := bson.M{}
	if f.PropertyID != "" {
		filter["property_id"] = f.PropertyID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CheckOut != nil {
		filter["check_in"] = bson.M{"$lt": *f.CheckOut}
	}
	if f.CheckIn != nil {
		filter["check_out"] = bson.M{"$gt": *f.CheckIn}
	}
	return filter
}

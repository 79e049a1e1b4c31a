package repository

import (
	"context"
	"errors"
	"fmt"
	calendarserrors "staybook/internal/calendars/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BlockedDateCollectionName = "Blocked_dates"
)

type BlockedDateRepository interface {
	Create(ctx context.Context, block *model.BlockedDate) error
	FindByID(ctx context.Context, id string) (*model.BlockedDate, error)
	FindAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.BlockedDate, error)
	Count(ctx context.Context, propertyID string) (int64, error)
	FindOverlapping(ctx context.Context, propertyID string, rng model.DateRange) ([]*model.BlockedDate, error)
	FindByProperty(ctx context.Context, propertyID string) ([]*model.BlockedDate, error)
	FindByExternalID(ctx context.Context, propertyID, calendarID, externalID string) (*model.BlockedDate, error)
	Update(ctx context.Context, id string, block *model.BlockedDate) error
	Delete(ctx context.Context, id string) error
	DeleteEndedBefore(ctx context.Context, date model.Date) (int64, error)
	DeleteByProperty(ctx context.Context, propertyID string) (int64, error)
	DeleteByCalendar(ctx context.Context, calendarID string) (int64, error)
}

type mongoBlockedDateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlockedDateRepository(cfg *config.Config) BlockedDateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlockedDateRepository{
		cfg:        cfg,
		collection: db.Collection(BlockedDateCollectionName),
	}
}

func (r *mongoBlockedDateRepository) Create(ctx context.Context, block *model.BlockedDate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	block.CreatedAt = now
	block.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return fmt.Errorf("failed to create blocked date: %w", err)
	}

	block.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoBlockedDateRepository) FindByID(ctx context.Context, id string) (*model.BlockedDate, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", calendarserrors.ErrInvalidID, id)
	}

	var block model.BlockedDate
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, calendarserrors.ErrBlockedDateNotFound
		}
		return nil, fmt.Errorf("failed to find blocked date: %w", err)
	}

	return &block, nil
}

func (r *mongoBlockedDateRepository) FindAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.BlockedDate, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return r.find(ctx, propertyFilter(propertyID), opts)
}

func (r *mongoBlockedDateRepository) Count(ctx context.Context, propertyID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, propertyFilter(propertyID))
	if err != nil {
		return 0, fmt.Errorf("failed to count blocked dates: %w", err)
	}
	return count, nil
}

// FindOverlapping returns blocks that share at least one night with rng.
func (r *mongoBlockedDateRepository) FindOverlapping(ctx context.Context, propertyID string, rng model.DateRange) ([]*model.BlockedDate, error) {
	filter := bson.M{
		"property_id": propertyID,
		"start_date":  bson.M{"$lt": rng.End},
		"end_date":    bson.M{"$gt": rng.Start},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *mongoBlockedDateRepository) FindByProperty(ctx context.Context, propertyID string) ([]*model.BlockedDate, error) {
	return r.find(ctx, bson.M{"property_id": propertyID}, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

// FindByExternalID returns the block imported from the given feed event, or
// ErrBlockedDateNotFound.
func (r *mongoBlockedDateRepository) FindByExternalID(ctx context.Context, propertyID, calendarID, externalID string) (*model.BlockedDate, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id":          propertyID,
		"external_calendar_id": calendarID,
		"external_id":          externalID,
	}

	var block model.BlockedDate
	if err := r.collection.FindOne(ctx, filter).Decode(&block); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, calendarserrors.ErrBlockedDateNotFound
		}
		return nil, fmt.Errorf("failed to find blocked date by external id: %w", err)
	}
	return &block, nil
}

func (r *mongoBlockedDateRepository) Update(ctx context.Context, id string, block *model.BlockedDate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", calendarserrors.ErrInvalidID, id)
	}

	block.UpdatedAt = mongotx.Now()
	update := bson.M{"$set": bson.M{
		"start_date": block.StartDate,
		"end_date":   block.EndDate,
		"notes":      block.Notes,
		"updated_at": block.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update blocked date: %w", err)
	}
	if result.MatchedCount == 0 {
		return calendarserrors.ErrBlockedDateNotFound
	}
	return nil
}

func (r *mongoBlockedDateRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", calendarserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete blocked date: %w", err)
	}
	if result.DeletedCount == 0 {
		return calendarserrors.ErrBlockedDateNotFound
	}
	return nil
}

// DeleteEndedBefore removes blocks whose end date is before date.
func (r *mongoBlockedDateRepository) DeleteEndedBefore(ctx context.Context, date model.Date) (int64, error) {
	return r.deleteMany(ctx, bson.M{"end_date": bson.M{"$lt": date}})
}

func (r *mongoBlockedDateRepository) DeleteByProperty(ctx context.Context, propertyID string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"property_id": propertyID})
}

func (r *mongoBlockedDateRepository) DeleteByCalendar(ctx context.Context, calendarID string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"external_calendar_id": calendarID})
}

func (r *mongoBlockedDateRepository) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete blocked dates: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoBlockedDateRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.BlockedDate, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked dates: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []*model.BlockedDate
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocked dates: %w", err)
	}
	return blocks, nil
}

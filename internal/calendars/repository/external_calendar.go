package repository

import (
	"context"
	"errors"
	"fmt"
	calendarserrors "staybook/internal/calendars/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	"staybook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CalendarCollectionName = "External_calendars"
)

type ExternalCalendarRepository interface {
	Create(ctx context.Context, calendar *model.ExternalCalendar) error
	FindByID(ctx context.Context, id string) (*model.ExternalCalendar, error)
	FindAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.ExternalCalendar, error)
	Count(ctx context.Context, propertyID string) (int64, error)
	ListActive(ctx context.Context) ([]*model.ExternalCalendar, error)
	Update(ctx context.Context, id string, calendar *model.ExternalCalendar) error
	UpdateSyncStatus(ctx context.Context, id string, lastSynced *time.Time, syncErrors *string) error
	Delete(ctx context.Context, id string) error
	DeleteByProperty(ctx context.Context, propertyID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoExternalCalendarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoExternalCalendarRepository(cfg *config.Config) ExternalCalendarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExternalCalendarRepository{
		cfg:        cfg,
		collection: db.Collection(CalendarCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Create inserts the calendar. A second calendar for the same property and
// source violates the unique index and returns ErrDuplicate.
func (r *mongoExternalCalendarRepository) Create(ctx context.Context, calendar *model.ExternalCalendar) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	calendar.CreatedAt = now
	calendar.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, calendar)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return calendarserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create external calendar: %w", err)
	}

	calendar.ID = mongotx.HexID(result.InsertedID)
	return nil
}

func (r *mongoExternalCalendarRepository) FindByID(ctx context.Context, id string) (*model.ExternalCalendar, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", calendarserrors.ErrInvalidID, id)
	}

	var calendar model.ExternalCalendar
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&calendar)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, calendarserrors.ErrCalendarNotFound
		}
		return nil, fmt.Errorf("failed to find external calendar: %w", err)
	}

	return &calendar, nil
}

// FindAll lists calendars newest first, limited to one property when
// propertyID is set.
func (r *mongoExternalCalendarRepository) FindAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.ExternalCalendar, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return r.find(ctx, propertyFilter(propertyID), opts)
}

func (r *mongoExternalCalendarRepository) Count(ctx context.Context, propertyID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, propertyFilter(propertyID))
	if err != nil {
		return 0, fmt.Errorf("failed to count external calendars: %w", err)
	}
	return count, nil
}

// ListActive returns every calendar with syncing enabled, oldest first so
// batch runs process calendars in a stable order.
func (r *mongoExternalCalendarRepository) ListActive(ctx context.Context) ([]*model.ExternalCalendar, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"is_active": true}, opts)
}

func (r *mongoExternalCalendarRepository) Update(ctx context.Context, id string, calendar *model.ExternalCalendar) error {
	calendar.UpdatedAt = mongotx.Now()
	return r.set(ctx, id, bson.M{
		"ical_url":   calendar.ICalURL,
		"is_active":  calendar.IsActive,
		"updated_at": calendar.UpdatedAt,
	})
}

// UpdateSyncStatus records the outcome of an import. A nil lastSynced leaves
// the previous successful sync time in place.
func (r *mongoExternalCalendarRepository) UpdateSyncStatus(ctx context.Context, id string, lastSynced *time.Time, syncErrors *string) error {
	fields := bson.M{
		"sync_errors": syncErrors,
		"updated_at":  mongotx.Now(),
	}
	if lastSynced != nil {
		fields["last_synced"] = lastSynced.UTC().Truncate(time.Millisecond)
	}
	return r.set(ctx, id, fields)
}

func (r *mongoExternalCalendarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", calendarserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete external calendar: %w", err)
	}
	if result.DeletedCount == 0 {
		return calendarserrors.ErrCalendarNotFound
	}
	return nil
}

func (r *mongoExternalCalendarRepository) DeleteByProperty(ctx context.Context, propertyID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete external calendars of property: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoExternalCalendarRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoExternalCalendarRepository) set(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", calendarserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update external calendar: %w", err)
	}
	if result.MatchedCount == 0 {
		return calendarserrors.ErrCalendarNotFound
	}
	return nil
}

func (r *mongoExternalCalendarRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.ExternalCalendar, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find external calendars: %w", err)
	}
	defer cursor.Close(ctx)

	var calendars []*model.ExternalCalendar
	if err = cursor.All(ctx, &calendars); err != nil {
		return nil, fmt.Errorf("failed to decode external calendars: %w", err)
	}
	return calendars, nil
}

func propertyFilter(propertyID string) bson.M {
	if propertyID == "" {
		return bson.M{}
	}
	return bson.M{"property_id": propertyID}
}

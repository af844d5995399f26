package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// Repository defines the interface for day-result archival.
type Repository interface {
	SaveDayResult(ctx context.Context, result models.DayResult) error
}

// archivedDay is the persisted shape of a committed day. Money fields are
// archived as strings to keep decimal exactness.
type archivedDay struct {
	Date          string    `bson:"date"`
	SalesCount    int       `bson:"sales_count"`
	DroppedDemand int       `bson:"dropped_demand"`
	Revenue       string    `bson:"revenue"`
	COGS          string    `bson:"cogs"`
	Expenses      string    `bson:"expenses"`
	Profit        string    `bson:"profit"`
	Restocks      int       `bson:"restocks_applied"`
	CreatedAt     time.Time `bson:"created_at"`
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "day_results",
	}, nil
}

// SaveDayResult archives a committed day result, replacing any earlier
// archive for the same date so a reset-and-resimulated day does not
// duplicate history.
func (r *MongoDBRepository) SaveDayResult(ctx context.Context, result models.DayResult) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	doc := archivedDay{
		Date:          result.Date.String(),
		SalesCount:    result.SalesCount,
		DroppedDemand: result.DroppedDemand,
		Revenue:       result.Revenue.String(),
		COGS:          result.COGS.String(),
		Expenses:      result.Expenses.String(),
		Profit:        result.Profit.String(),
		Restocks:      len(result.RestocksApplied),
		CreatedAt:     time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"date": doc.Date}, doc, opts); err != nil {
		return fmt.Errorf("failed to archive day result: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

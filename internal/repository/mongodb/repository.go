package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

// ErrIngredientNotFound indicates no catalog record matched the request.
var ErrIngredientNotFound = errors.New("ingredient not found")

const (
	ingredientsCollection = "feed_ingredients"
	plansCollection       = "feed_plans"
	ingredientNameIndex   = "name_ci"
)

// nameCollation compares ingredient names ignoring case, matching how the
// catalog resolves them.
var nameCollation = &options.Collation{Locale: "en", Strength: 2}

// IngredientRepository defines catalog persistence.
type IngredientRepository interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	UpsertIngredient(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error)
	DeleteIngredient(ctx context.Context, name string) error
	SeedDefaults(ctx context.Context, defaults []models.Ingredient) (int, error)
	UpdatePrice(ctx context.Context, name string, pricePerKg float64, source string, at time.Time) error
}

// PlanRepository defines feed plan history persistence.
type PlanRepository interface {
	SaveFeedPlan(ctx context.Context, plan models.FeedPlan) (models.FeedPlan, error)
	ListFeedPlans(ctx context.Context, limit int64) ([]models.FeedPlan, error)
}

var (
	_ IngredientRepository = (*MongoDBRepository)(nil)
	_ PlanRepository       = (*MongoDBRepository)(nil)
)

// MongoDBRepository implements the catalog and plan repositories for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	now    func() time.Time
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

	repo := &MongoDBRepository{
		client: client,
		dbName: dbName,
		now:    time.Now,
	}

	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.ingredients().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName(ingredientNameIndex).SetUnique(true).SetCollation(nameCollation),
	})
	if err != nil {
		return fmt.Errorf("failed to create ingredient name index: %w", err)
	}

	_, err = r.plans().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create feed plan index: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) ingredients() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(ingredientsCollection)
}

func (r *MongoDBRepository) plans() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(plansCollection)
}

// ListIngredients returns the whole catalog ordered by category and name.
func (r *MongoDBRepository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.ingredients().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}

	var out []models.Ingredient
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	return out, nil
}

// UpsertIngredient creates the ingredient or updates the record with the same
// name, compared case-insensitively. An existing record keeps its spelling.
func (r *MongoDBRepository) UpsertIngredient(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error) {
	ingredient.Name = strings.TrimSpace(ingredient.Name)
	now := r.now().UTC()
	id := ingredient.ID
	if id == "" {
		id = uuid.NewString()
	}

	update := bson.M{
		"$set": bson.M{
			"category":              ingredient.Category,
			"classification":        ingredient.Classification,
			"protein_percentage":    ingredient.ProteinPercentage,
			"fat_percentage":        ingredient.FatPercentage,
			"fiber_percentage":      ingredient.FiberPercentage,
			"ash_percentage":        ingredient.AshPercentage,
			"moisture_percentage":   ingredient.MoisturePercentage,
			"energy_kcal_per_kg":    ingredient.EnergyKcalPerKg,
			"calcium_percentage":    ingredient.CalciumPercentage,
			"phosphorus_percentage": ingredient.PhosphorusPercentage,
			"cost_per_kg":           ingredient.CostPerKg,
			"updated_at":            now,
		},
		"$setOnInsert": bson.M{
			"_id":        id,
			"is_default": ingredient.IsDefault,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetCollation(nameCollation)

	var saved models.Ingredient
	err := r.ingredients().FindOneAndUpdate(ctx, bson.M{"name": ingredient.Name}, update, opts).Decode(&saved)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("failed to upsert ingredient %s: %w", ingredient.Name, err)
	}
	return saved, nil
}

// DeleteIngredient removes the ingredient with the given name, ignoring case.
func (r *MongoDBRepository) DeleteIngredient(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	res, err := r.ingredients().DeleteOne(ctx, bson.M{"name": name}, options.Delete().SetCollation(nameCollation))
	if err != nil {
		return fmt.Errorf("failed to delete ingredient %s: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

// SeedDefaults inserts the default catalog unless default records already exist.
func (r *MongoDBRepository) SeedDefaults(ctx context.Context, defaults []models.Ingredient) (int, error) {
	existing, err := r.ingredients().CountDocuments(ctx, bson.M{"is_default": true}, options.Count().SetLimit(1))
	if err != nil {
		return 0, fmt.Errorf("failed to count default ingredients: %w", err)
	}
	if existing > 0 || len(defaults) == 0 {
		return 0, nil
	}

	now := r.now().UTC()
	docs := make([]interface{}, 0, len(defaults))
	for _, ing := range defaults {
		ing.ID = uuid.NewString()
		ing.IsDefault = true
		ing.CreatedAt = now
		ing.UpdatedAt = now
		docs = append(docs, ing)
	}

	res, err := r.ingredients().InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert default ingredients: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// UpdatePrice sets the market price of a default ingredient.
func (r *MongoDBRepository) UpdatePrice(ctx context.Context, name string, pricePerKg float64, source string, at time.Time) error {
	name = strings.TrimSpace(name)
	update := bson.M{"$set": bson.M{
		"cost_per_kg":      pricePerKg,
		"price_source":     source,
		"price_updated_at": at.UTC(),
		"updated_at":       r.now().UTC(),
	}}

	filter := bson.M{"name": name, "is_default": true}
	res, err := r.ingredients().UpdateOne(ctx, filter, update, options.Update().SetCollation(nameCollation))
	if err != nil {
		return fmt.Errorf("failed to update price for %s: %w", name, err)
	}
	if res.MatchedCount == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

// SaveFeedPlan stores a computed plan.
func (r *MongoDBRepository) SaveFeedPlan(ctx context.Context, plan models.FeedPlan) (models.FeedPlan, error) {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = r.now().UTC()
	}

	if _, err := r.plans().InsertOne(ctx, plan); err != nil {
		return models.FeedPlan{}, fmt.Errorf("failed to insert feed plan: %w", err)
	}
	return plan, nil
}

// ListFeedPlans returns the most recent plans first.
func (r *MongoDBRepository) ListFeedPlans(ctx context.Context, limit int64) ([]models.FeedPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.plans().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed plans: %w", err)
	}

	var out []models.FeedPlan
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode feed plans: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

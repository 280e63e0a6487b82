package repository

import (
	"context"

	"ottm-backend/internal/database"
	"ottm-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProjectRepo struct {
	collection *mongo.Collection
}

func NewProjectRepo() *ProjectRepo {
	return &ProjectRepo{
		collection: database.GetCollection("projects"),
	}
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return err
	}
	project.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *ProjectRepo) CreateMany(ctx context.Context, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	docs := make([]interface{}, len(projects))
	for i, project := range projects {
		docs[i] = project
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return err
	}
	for i, id := range result.InsertedIDs {
		projects[i].ID = id.(bson.ObjectID)
	}
	return nil
}

func (r *ProjectRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// List returns all projects sorted by name.
func (r *ProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	return r.find(ctx, bson.M{})
}

// SearchByName returns projects whose name matches the given pattern,
// sorted by name.
func (r *ProjectRepo) SearchByName(ctx context.Context, name string) ([]models.Project, error) {
	return r.find(ctx, bson.M{"name": bson.M{"$regex": name}})
}

// SearchFullText searches the name/description full-text index.
func (r *ProjectRepo) SearchFullText(ctx context.Context, text string) ([]models.Project, error) {
	return r.find(ctx, bson.M{"$text": bson.M{"$search": text}})
}

func (r *ProjectRepo) find(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Patch applies the given field updates to one project and returns the
// updated document.
func (r *ProjectRepo) Patch(ctx context.Context, id bson.ObjectID, fields bson.M) (*models.Project, error) {
	if len(fields) > 0 {
		_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
		if err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *ProjectRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates the full-text index used by SearchFullText.
func (r *ProjectRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
		},
		Options: options.Index().SetName("idxProjectFullText"),
	})
	return err
}

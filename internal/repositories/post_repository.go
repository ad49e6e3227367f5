package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pokerconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	SharePost(ctx context.Context, original *models.Post, sharerID uint, caption string) (*models.Post, error)
	IncrementLikesCount(ctx context.Context, postID string) error
	DecrementLikesCount(ctx context.Context, postID string) error
	IncrementCommentsCount(ctx context.Context, postID string) error
	DeletePostsByUser(ctx context.Context, userID uint) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(client *mongo.Client, dbName string) *MongoPostRepository {
	return &MongoPostRepository{
		client:     client,
		collection: client.Database(dbName).Collection("posts"),
	}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByUserID retrieves posts by a specific user, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, error) {
	return r.findPosts(ctx, bson.M{"user_id": userID}, skip, limit)
}

// GetAllPosts retrieves all posts with pagination, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.findPosts(ctx, bson.M{}, skip, limit)
}

func (r *MongoPostRepository) findPosts(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, error) {
	posts := []models.Post{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of posts
func (r *MongoPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// SharePost creates the reshare post and increments the original's share
// counter inside one MongoDB session transaction, so a reshare can never
// exist without the counter bump or vice versa.
func (r *MongoPostRepository) SharePost(ctx context.Context, original *models.Post, sharerID uint, caption string) (*models.Post, error) {
	share := &models.Post{
		ID:               primitive.NewObjectID(),
		UserID:           sharerID,
		Content:          caption,
		OriginalPostID:   original.ID.Hex(),
		OriginalUserID:   original.UserID,
		OriginalContent:  original.Content,
		OriginalImageURL: original.ImageURL,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.collection.InsertOne(sc, share); err != nil {
			return nil, err
		}
		if _, err := r.collection.UpdateOne(sc,
			bson.M{"_id": original.ID},
			bson.M{"$inc": bson.M{"shares_count": 1}}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// IncrementLikesCount increments the likes count of a post
func (r *MongoPostRepository) IncrementLikesCount(ctx context.Context, postID string) error {
	return r.incCounter(ctx, postID, "likes_count", 1)
}

// DecrementLikesCount decrements the likes count of a post
func (r *MongoPostRepository) DecrementLikesCount(ctx context.Context, postID string) error {
	return r.incCounter(ctx, postID, "likes_count", -1)
}

// IncrementCommentsCount increments the comments count of a post
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	return r.incCounter(ctx, postID, "comments_count", 1)
}

func (r *MongoPostRepository) incCounter(ctx context.Context, postID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}

// DeletePostsByUser removes every post authored by the user. Part of the
// account-deletion cascade.
func (r *MongoPostRepository) DeletePostsByUser(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

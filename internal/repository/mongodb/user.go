package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	Department   string    `bson:"department"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d userDoc) toEntity() user.User {
	return user.User{
		ID:           d.ID,
		Username:     d.Username,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         user.Role(d.Role),
		Department:   d.Department,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *database.MongoDB) user.UserRepository {
	return &userRepository{users: db.Collection(collectionUsers)}
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	newUser.CreatedAt, newUser.UpdatedAt = now, now

	_, err := r.users.InsertOne(ctx, userDoc{
		ID:           newUser.ID,
		Username:     newUser.Username,
		Name:         newUser.Name,
		Email:        newUser.Email,
		PasswordHash: newUser.PasswordHash,
		Role:         string(newUser.Role),
		Department:   newUser.Department,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email") {
				return user.User{}, user.ErrUserEmailExists
			}
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return newUser, nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *userRepository) List(ctx context.Context) ([]user.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]user.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toEntity())
	}
	return users, nil
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

const accountCollection = "accounts"

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	PhoneNumber  string             `bson:"phone_number,omitempty"`
	IsActive     bool               `bson:"is_active"`
	IsStaff      bool               `bson:"is_staff"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func toDoc(a *domain.Account) mongoAccount {
	return mongoAccount{
		Username:     a.Username,
		Email:        a.Email,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		PhoneNumber:  a.PhoneNumber,
		IsActive:     a.IsActive,
		IsStaff:      a.IsStaff,
		CreatedAt:    a.CreatedAt.Unix(),
		UpdatedAt:    a.UpdatedAt.Unix(),
	}
}

func (m mongoAccount) toDomain() domain.Account {
	return domain.Account{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		PhoneNumber:  m.PhoneNumber,
		IsActive:     m.IsActive,
		IsStaff:      m.IsStaff,
		CreatedAt:    unixToTime(m.CreatedAt),
		UpdatedAt:    unixToTime(m.UpdatedAt),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	_, err := r.coll.InsertOne(ctx, toDoc(account))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	// fetch back to get ID
	return r.FindByUsername(ctx, account.Username)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	account := ma.toDomain()
	return &account, nil
}

func (r *AccountRepository) List(ctx context.Context, filter ports.AccountFilter) ([]domain.Account, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = string(filter.Role)
	}
	if filter.Active != nil {
		query["is_active"] = *filter.Active
	}
	if filter.Query != "" {
		regex := primitive.Regex{Pattern: filter.Query, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"username": regex},
			bson.M{"email": regex},
			bson.M{"first_name": regex},
			bson.M{"last_name": regex},
		}
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []domain.Account
	for cursor.Next(ctx) {
		var ma mongoAccount
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		accounts = append(accounts, ma.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	return r.updateField(ctx, username, bson.M{"role": string(role)})
}

func (r *AccountRepository) SetActive(ctx context.Context, username string, active bool) error {
	return r.updateField(ctx, username, bson.M{"is_active": active})
}

func (r *AccountRepository) updateField(ctx context.Context, username string, set bson.M) error {
	set["updated_at"] = time.Now().UTC().Unix()
	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// CountByRole groups the collection by role in a single aggregation. Roles
// outside the four recognized values are ignored so the total always equals
// the sum of the per-role counts.
func (r *AccountRepository) CountByRole(ctx context.Context) (domain.RoleCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.RoleCounts{}, fmt.Errorf("count by role: %w", err)
	}
	defer cursor.Close(ctx)

	var counts domain.RoleCounts
	for cursor.Next(ctx) {
		var row struct {
			Role  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return domain.RoleCounts{}, fmt.Errorf("decode count: %w", err)
		}
		switch domain.Role(row.Role) {
		case domain.RoleClient:
			counts.Clients = row.Count
		case domain.RoleDriver:
			counts.Drivers = row.Count
		case domain.RoleClearanceAgent:
			counts.ClearanceAgents = row.Count
		case domain.RoleAdmin:
			counts.Admins = row.Count
		}
	}
	if err := cursor.Err(); err != nil {
		return domain.RoleCounts{}, fmt.Errorf("count by role: %w", err)
	}
	return counts, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

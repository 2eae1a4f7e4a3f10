package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mgo "github.com/SNTejaswi/MERN-CHAT-APP/service/mgo"
)

// User is the account main record. Password carries the bcrypt hash and is
// never serialized to JSON.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Pic       string             `bson:"pic" json:"pic"`
	IsAdmin   bool               `bson:"is_admin" json:"isAdmin"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

const DefaultPic = "https://icon-library.com/images/anonymous-avatar-icon/anonymous-avatar-icon-25.jpg"

func (User) GetTableName() string { return "users" }

func (u *User) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(u.GetTableName())
}

// Insert stores the user and fills in its id and timestamps.
func (u *User) Insert(ctx context.Context) error {
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Pic == "" {
		u.Pic = DefaultPic
	}
	res, err := u.Collection().InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// FindByEmail returns nil when no such user exists.
func FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := u.Collection().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	err := u.Collection().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByIDs resolves a member id list into profiles, preserving input order.
// Used to populate chat member snapshots.
func FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := (&User{}).Collection().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []User
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	out := make([]User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Search matches name or email case-insensitively, excluding the caller.
func Search(ctx context.Context, keyword string, exclude primitive.ObjectID) ([]User, error) {
	filter := bson.M{"_id": bson.M{"$ne": exclude}}
	if keyword != "" {
		rx := primitive.Regex{Pattern: keyword, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
		}
	}
	cur, err := (&User{}).Collection().Find(ctx, filter, options.Find().SetLimit(50))
	if err != nil {
		return nil, err
	}
	var out []User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

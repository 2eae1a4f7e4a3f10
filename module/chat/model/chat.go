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

// Chat is the conversation document. Users embeds the member id list, the
// snapshot the client later carries inside realtime payloads.
type Chat struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	ChatName      string               `bson:"chat_name"`
	IsGroupChat   bool                 `bson:"is_group_chat"`
	Users         []primitive.ObjectID `bson:"users"`
	GroupAdmin    *primitive.ObjectID  `bson:"group_admin,omitempty"`
	LatestMessage *primitive.ObjectID  `bson:"latest_message,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (Chat) GetTableName() string { return "chats" }

func (c *Chat) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(c.GetTableName())
}

func (c *Chat) Insert(ctx context.Context) error {
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	res, err := c.Collection().InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func FindByID(ctx context.Context, id primitive.ObjectID) (*Chat, error) {
	var c Chat
	err := c.Collection().FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindOneToOne returns the existing non-group chat between two users, if any.
func FindOneToOne(ctx context.Context, a, b primitive.ObjectID) (*Chat, error) {
	var c Chat
	filter := bson.M{
		"is_group_chat": false,
		"$and": bson.A{
			bson.M{"users": bson.M{"$elemMatch": bson.M{"$eq": a}}},
			bson.M{"users": bson.M{"$elemMatch": bson.M{"$eq": b}}},
		},
	}
	err := c.Collection().FindOne(ctx, filter).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindForUser lists every chat the user belongs to, latest-updated first.
func FindForUser(ctx context.Context, user primitive.ObjectID) ([]Chat, error) {
	filter := bson.M{"users": bson.M{"$elemMatch": bson.M{"$eq": user}}}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := (&Chat{}).Collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []Chat
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Rename updates the chat name; returns the updated document or nil when the
// chat does not exist.
func Rename(ctx context.Context, id primitive.ObjectID, name string) (*Chat, error) {
	return findAndUpdate(ctx, id, bson.M{
		"$set": bson.M{"chat_name": name, "updated_at": time.Now()},
	})
}

// AddMember adds the user to the member list (no-op when already present).
func AddMember(ctx context.Context, id, user primitive.ObjectID) (*Chat, error) {
	return findAndUpdate(ctx, id, bson.M{
		"$addToSet": bson.M{"users": user},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// RemoveMember pulls the user from the member list.
func RemoveMember(ctx context.Context, id, user primitive.ObjectID) (*Chat, error) {
	return findAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"users": user},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// SetLatestMessage records the newest message id and bumps updated_at, which
// drives the chat list ordering.
func SetLatestMessage(ctx context.Context, id, msg primitive.ObjectID) error {
	_, err := (&Chat{}).Collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"latest_message": msg, "updated_at": time.Now()},
	})
	return err
}

func findAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*Chat, error) {
	var c Chat
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := (&Chat{}).Collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

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

// Message references sender and chat by id; population happens in the
// service layer.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Sender    primitive.ObjectID `bson:"sender"`
	Content   string             `bson:"content"`
	Chat      primitive.ObjectID `bson:"chat"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (Message) GetTableName() string { return "messages" }

func (m *Message) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(m.GetTableName())
}

func (m *Message) Insert(ctx context.Context) error {
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	res, err := m.Collection().InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

func FindByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var m Message
	err := m.Collection().FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByChat returns the chat history, oldest first.
func FindByChat(ctx context.Context, chat primitive.ObjectID) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := (&Message{}).Collection().Find(ctx, bson.M{"chat": chat}, opts)
	if err != nil {
		return nil, err
	}
	var out []Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	chatmodel "github.com/SNTejaswi/MERN-CHAT-APP/module/chat/model"
	chatsvc "github.com/SNTejaswi/MERN-CHAT-APP/module/chat/service"
	msgmodel "github.com/SNTejaswi/MERN-CHAT-APP/module/message/model"
	usermodel "github.com/SNTejaswi/MERN-CHAT-APP/module/user/model"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
)

// MessageView is the populated document the client receives from the REST
// call and then carries verbatim into the `new message` gateway event: sender
// resolved to a profile, chat resolved with its member snapshot.
type MessageView struct {
	ID        primitive.ObjectID `json:"_id"`
	Sender    usermodel.User     `json:"sender"`
	Content   string             `json:"content"`
	Chat      chatsvc.ChatView   `json:"chat"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Send persists the message, updates the chat's latestMessage and returns
// the populated view.
func Send(ctx context.Context, sender, chatID primitive.ObjectID, content string) (*MessageView, error) {
	if content == "" {
		return nil, errs.ErrBadRequest.WithDetail("invalid data passed into request")
	}

	chat, err := chatmodel.FindByID(ctx, chatID)
	if err != nil {
		return nil, errs.WrapMsg(err, "lookup chat")
	}
	if chat == nil {
		return nil, errs.ErrChatNotFound
	}

	m := &msgmodel.Message{Sender: sender, Content: content, Chat: chatID}
	if err := m.Insert(ctx); err != nil {
		return nil, errs.WrapMsg(err, "insert message")
	}

	if err := chatmodel.SetLatestMessage(ctx, chatID, m.ID); err != nil {
		return nil, errs.WrapMsg(err, "update latest message")
	}

	return populate(ctx, m, chat)
}

// History returns the chat's messages, oldest first, senders populated.
func History(ctx context.Context, chatID primitive.ObjectID) ([]MessageView, error) {
	chat, err := chatmodel.FindByID(ctx, chatID)
	if err != nil {
		return nil, errs.WrapMsg(err, "lookup chat")
	}
	if chat == nil {
		return nil, errs.ErrChatNotFound
	}

	msgs, err := msgmodel.FindByChat(ctx, chatID)
	if err != nil {
		return nil, errs.WrapMsg(err, "list messages")
	}

	out := make([]MessageView, 0, len(msgs))
	for i := range msgs {
		v, err := populate(ctx, &msgs[i], chat)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func populate(ctx context.Context, m *msgmodel.Message, chat *chatmodel.Chat) (*MessageView, error) {
	sender, err := usermodel.FindByID(ctx, m.Sender)
	if err != nil {
		return nil, errs.WrapMsg(err, "populate sender")
	}

	chatView, err := chatsvc.Populate(ctx, chat)
	if err != nil {
		return nil, err
	}

	v := &MessageView{
		ID:        m.ID,
		Content:   m.Content,
		Chat:      *chatView,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if sender != nil {
		v.Sender = *sender
	}
	return v, nil
}

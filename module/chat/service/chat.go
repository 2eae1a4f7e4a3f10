package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	chatmodel "github.com/SNTejaswi/MERN-CHAT-APP/module/chat/model"
	msgmodel "github.com/SNTejaswi/MERN-CHAT-APP/module/message/model"
	usermodel "github.com/SNTejaswi/MERN-CHAT-APP/module/user/model"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
)

// ChatView is the populated response shape: member ids resolved to profiles,
// latest message carrying its sender. The `users` array is exactly the
// membership snapshot the client embeds in `new message` events.
type ChatView struct {
	ID            primitive.ObjectID `json:"_id"`
	ChatName      string             `json:"chatName"`
	IsGroupChat   bool               `json:"isGroupChat"`
	Users         []usermodel.User   `json:"users"`
	GroupAdmin    *usermodel.User    `json:"groupAdmin,omitempty"`
	LatestMessage *LatestMessageView `json:"latestMessage,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type LatestMessageView struct {
	ID        primitive.ObjectID `json:"_id"`
	Sender    usermodel.User     `json:"sender"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

// AccessChat finds the 1:1 chat between caller and other, creating it when
// absent.
func AccessChat(ctx context.Context, caller, other primitive.ObjectID) (*ChatView, error) {
	existing, err := chatmodel.FindOneToOne(ctx, caller, other)
	if err != nil {
		return nil, errs.WrapMsg(err, "find chat")
	}
	if existing != nil {
		return Populate(ctx, existing)
	}

	peer, err := usermodel.FindByID(ctx, other)
	if err != nil {
		return nil, errs.WrapMsg(err, "lookup peer")
	}
	if peer == nil {
		return nil, errs.ErrNotFound.WithDetail("user not found")
	}

	c := &chatmodel.Chat{
		ChatName:    "sender",
		IsGroupChat: false,
		Users:       []primitive.ObjectID{caller, other},
	}
	if err := c.Insert(ctx); err != nil {
		return nil, errs.WrapMsg(err, "create chat")
	}
	return Populate(ctx, c)
}

// FetchChats returns the caller's chats, latest-updated first, populated.
func FetchChats(ctx context.Context, caller primitive.ObjectID) ([]ChatView, error) {
	chats, err := chatmodel.FindForUser(ctx, caller)
	if err != nil {
		return nil, errs.WrapMsg(err, "list chats")
	}
	out := make([]ChatView, 0, len(chats))
	for i := range chats {
		v, err := Populate(ctx, &chats[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// CreateGroup creates a group chat with the invitees plus the creator, who
// becomes group admin.
func CreateGroup(ctx context.Context, creator primitive.ObjectID, name string, invitees []primitive.ObjectID) (*ChatView, error) {
	if name == "" || len(invitees) == 0 {
		return nil, errs.ErrBadRequest.WithDetail("please fill all fields")
	}
	if len(invitees) < 2 {
		return nil, errs.ErrBadRequest.WithDetail("at least 2 users are required for a group")
	}

	members := append(append([]primitive.ObjectID{}, invitees...), creator)
	c := &chatmodel.Chat{
		ChatName:    name,
		IsGroupChat: true,
		Users:       members,
		GroupAdmin:  &creator,
	}
	if err := c.Insert(ctx); err != nil {
		return nil, errs.WrapMsg(err, "create group")
	}
	return Populate(ctx, c)
}

func RenameGroup(ctx context.Context, id primitive.ObjectID, name string) (*ChatView, error) {
	c, err := chatmodel.Rename(ctx, id, name)
	if err != nil {
		return nil, errs.WrapMsg(err, "rename chat")
	}
	if c == nil {
		return nil, errs.ErrChatNotFound
	}
	return Populate(ctx, c)
}

func AddToGroup(ctx context.Context, id, user primitive.ObjectID) (*ChatView, error) {
	c, err := chatmodel.AddMember(ctx, id, user)
	if err != nil {
		return nil, errs.WrapMsg(err, "add member")
	}
	if c == nil {
		return nil, errs.ErrChatNotFound
	}
	return Populate(ctx, c)
}

func RemoveFromGroup(ctx context.Context, id, user primitive.ObjectID) (*ChatView, error) {
	c, err := chatmodel.RemoveMember(ctx, id, user)
	if err != nil {
		return nil, errs.WrapMsg(err, "remove member")
	}
	if c == nil {
		return nil, errs.ErrChatNotFound
	}
	return Populate(ctx, c)
}

// Populate resolves member, admin and latest-message references into the
// response shape (the mongoose populate equivalent, done with explicit
// secondary queries).
func Populate(ctx context.Context, c *chatmodel.Chat) (*ChatView, error) {
	users, err := usermodel.FindByIDs(ctx, c.Users)
	if err != nil {
		return nil, errs.WrapMsg(err, "populate users")
	}

	v := &ChatView{
		ID:          c.ID,
		ChatName:    c.ChatName,
		IsGroupChat: c.IsGroupChat,
		Users:       users,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if c.GroupAdmin != nil {
		admin, err := usermodel.FindByID(ctx, *c.GroupAdmin)
		if err != nil {
			return nil, errs.WrapMsg(err, "populate admin")
		}
		v.GroupAdmin = admin
	}

	if c.LatestMessage != nil {
		m, err := msgmodel.FindByID(ctx, *c.LatestMessage)
		if err != nil {
			return nil, errs.WrapMsg(err, "populate latest message")
		}
		if m != nil {
			sender, err := usermodel.FindByID(ctx, m.Sender)
			if err != nil {
				return nil, errs.WrapMsg(err, "populate latest sender")
			}
			lm := &LatestMessageView{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt}
			if sender != nil {
				lm.Sender = *sender
			}
			v.LatestMessage = lm
		}
	}

	return v, nil
}

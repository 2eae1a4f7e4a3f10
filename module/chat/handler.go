package chat

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	midsec "github.com/SNTejaswi/MERN-CHAT-APP/middleware/security"
	"github.com/SNTejaswi/MERN-CHAT-APP/module/chat/service"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
)

type accessReq struct {
	UserID string `json:"userId"`
}

type groupReq struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

type renameReq struct {
	ChatID   string `json:"chatId"`
	ChatName string `json:"chatName"`
}

type memberReq struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}

// HandlerAccess implements POST /api/chat: find-or-create the 1:1 chat.
func HandlerAccess(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req accessReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("userId is required"))
		return
	}
	other, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid userId"))
		return
	}
	view, err := service.AccessChat(c.Request.Context(), caller, other)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandlerFetch implements GET /api/chat.
func HandlerFetch(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	views, err := service.FetchChats(c.Request.Context(), caller)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// HandlerCreateGroup implements POST /api/chat/group.
func HandlerCreateGroup(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req groupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	invitees := make([]primitive.ObjectID, 0, len(req.Users))
	for _, raw := range req.Users {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid user id: "+raw))
			return
		}
		invitees = append(invitees, id)
	}
	view, err := service.CreateGroup(c.Request.Context(), caller, req.Name, invitees)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// HandlerRename implements PUT /api/chat/rename.
func HandlerRename(c *gin.Context) {
	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	id, err := primitive.ObjectIDFromHex(req.ChatID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid chatId"))
		return
	}
	view, err := service.RenameGroup(c.Request.Context(), id, req.ChatName)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandlerGroupAdd implements PUT /api/chat/groupadd.
func HandlerGroupAdd(c *gin.Context) {
	handleMember(c, service.AddToGroup)
}

// HandlerGroupRemove implements PUT /api/chat/groupremove.
func HandlerGroupRemove(c *gin.Context) {
	handleMember(c, service.RemoveFromGroup)
}

func handleMember(c *gin.Context, op func(ctx context.Context, id, user primitive.ObjectID) (*service.ChatView, error)) {
	var req memberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	id, err := primitive.ObjectIDFromHex(req.ChatID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid chatId"))
		return
	}
	user, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid userId"))
		return
	}
	view, err := op(c.Request.Context(), id, user)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(midsec.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, errs.ErrUnauthorized)
		return primitive.NilObjectID, false
	}
	return id, true
}

func respondErr(c *gin.Context, err error) {
	ce := errs.AsCodeError(err)
	c.JSON(ce.HTTPStatus(), ce)
}

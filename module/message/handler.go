package message

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	midsec "github.com/SNTejaswi/MERN-CHAT-APP/middleware/security"
	"github.com/SNTejaswi/MERN-CHAT-APP/module/message/service"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
)

type sendReq struct {
	Content string `json:"content"`
	ChatID  string `json:"chatId"`
}

// HandlerSend implements POST /api/message. The populated document it
// returns is what the client then emits as a `new message` gateway event.
func HandlerSend(c *gin.Context) {
	sender, err := primitive.ObjectIDFromHex(midsec.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, errs.ErrUnauthorized)
		return
	}
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" || req.ChatID == "" {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid data passed into request"))
		return
	}
	chatID, err := primitive.ObjectIDFromHex(req.ChatID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid chatId"))
		return
	}
	view, err := service.Send(c.Request.Context(), sender, chatID, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandlerHistory implements GET /api/message/:chatId.
func HandlerHistory(c *gin.Context) {
	chatID, err := primitive.ObjectIDFromHex(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail("invalid chatId"))
		return
	}
	views, err := service.History(c.Request.Context(), chatID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func respondErr(c *gin.Context, err error) {
	ce := errs.AsCodeError(err)
	c.JSON(ce.HTTPStatus(), ce)
}

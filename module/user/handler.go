package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	midsec "github.com/SNTejaswi/MERN-CHAT-APP/middleware/security"
	"github.com/SNTejaswi/MERN-CHAT-APP/module/user/model"
	"github.com/SNTejaswi/MERN-CHAT-APP/module/user/service"
	"github.com/SNTejaswi/MERN-CHAT-APP/service/storage"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
)

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Pic      string `json:"pic"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func HandlerRegister(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	out, err := service.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Pic)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func HandlerLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	out, err := service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// HandlerSearch implements GET /api/user?search=keyword.
func HandlerSearch(c *gin.Context) {
	caller, err := primitive.ObjectIDFromHex(midsec.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, errs.ErrUnauthorized)
		return
	}
	users, err := model.Search(c.Request.Context(), c.Query("search"), caller)
	if err != nil {
		respondErr(c, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

// HandlerOnline reports whether a user currently holds a live connection on
// any gateway, according to the presence cache.
func HandlerOnline(c *gin.Context) {
	id := c.Param("id")
	gw, online, err := storage.PresenceLookup(id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"userId": id, "online": false})
		return
	}
	resp := gin.H{"userId": id, "online": online}
	if online {
		resp["gateway"] = gw
	}
	c.JSON(http.StatusOK, resp)
}

func respondErr(c *gin.Context, err error) {
	ce := errs.AsCodeError(err)
	c.JSON(ce.HTTPStatus(), ce)
}

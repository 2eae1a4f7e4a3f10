package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/SNTejaswi/MERN-CHAT-APP/global"
	"github.com/SNTejaswi/MERN-CHAT-APP/module/user/model"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/errs"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/security"
)

// AuthedUser is the register/login response body: the profile plus a token.
type AuthedUser struct {
	model.User
	Token string `json:"token"`
}

// Register creates an account. Email must be unused.
func Register(ctx context.Context, name, email, password, pic string) (*AuthedUser, error) {
	if name == "" || email == "" || password == "" {
		return nil, errs.ErrBadRequest.WithDetail("please enter all the fields")
	}

	existing, err := model.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.WrapMsg(err, "lookup email")
	}
	if existing != nil {
		return nil, errs.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.WrapMsg(err, "hash password")
	}

	u := &model.User{Name: name, Email: email, Password: string(hash), Pic: pic}
	if err := u.Insert(ctx); err != nil {
		return nil, errs.WrapMsg(err, "insert user")
	}

	return withToken(u)
}

// Login verifies the credentials and issues a token.
func Login(ctx context.Context, email, password string) (*AuthedUser, error) {
	u, err := model.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.WrapMsg(err, "lookup email")
	}
	if u == nil {
		return nil, errs.ErrUnauthorized.WithDetail("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, errs.ErrUnauthorized.WithDetail("invalid email or password")
	}
	return withToken(u)
}

func withToken(u *model.User) (*AuthedUser, error) {
	token, _, err := security.Generate(security.DefaultOptions(global.GetJwtSecret()), u.ID.Hex())
	if err != nil {
		return nil, errs.WrapMsg(err, "sign token")
	}
	return &AuthedUser{User: *u, Token: token}, nil
}

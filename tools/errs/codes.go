package errs

// REST error envelope instances. Codes follow HTTP status where one exists.
var (
	ErrBadRequest   = NewCodeError(400, "bad request")
	ErrTokenExpired = NewCodeError(401, "token expired")
	ErrUnauthorized = NewCodeError(401, "not authorized, token failed")
	ErrForbidden    = NewCodeError(403, "forbidden")
	ErrNotFound     = NewCodeError(404, "not found")
	ErrChatNotFound = NewCodeError(404, "chat not found")
	ErrUserExists   = NewCodeError(409, "user already exists")
	ErrInternal     = NewCodeError(500, "internal error")
)

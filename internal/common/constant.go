package common

// AuthorizationHeader carries the bearer token on API requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// Keys under which middleware stores per-request values in fiber locals.
const (
	LocalsRequestID = "requestID"
	LocalsAccountID = "accountID"
	LocalsRole      = "role"
)

// RoleAdmin marks accounts allowed on the admin routes.
const RoleAdmin = "admin"

// RoleUser is the role of every self-registered account.
const RoleUser = "user"

package common

// AuthorizationHeaderName is the HTTP header used to carry bearer credentials
// (session JWTs from the dashboard, API tokens from the CLI).
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "

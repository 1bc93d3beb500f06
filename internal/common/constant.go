// Package common contains shared constants and sentinel errors used across
// cryptown components.
package common

// AuthorizationHeaderName carries the session token on inbound HTTP requests
// as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// AuthorizationScheme is the prefix expected in AuthorizationHeaderName.
const AuthorizationScheme = "Bearer "

// Package jwt signs and verifies the HS512 session tokens.
//
// Every role owns two secrets, one for access tokens and one for refresh
// tokens, so a token only verifies against the role and kind it was minted for.
package jwt

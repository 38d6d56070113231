// Package mocks provides function-field mock implementations of the
// service's collaborator interfaces for use in tests.
//
// Each mock calls its XxxFn field when set and otherwise falls back to the
// plain default fields:
//
//	issuer := &mocks.MockTokenIssuer{
//	    ValidateAccessTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks

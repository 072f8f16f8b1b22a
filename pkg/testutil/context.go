package testutil

import (
	"net/http"

	id "bizledger/pkg/domain"
	"bizledger/pkg/requestcontext"
)

// AsParty puts partyID on the request context, as the auth middleware does
// for a valid bearer token.
func AsParty(req *http.Request, partyID id.PartyID) *http.Request {
	return req.WithContext(requestcontext.WithPartyID(req.Context(), partyID))
}

// WithBearer sets the Authorization header.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

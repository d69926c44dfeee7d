// Package token reads the expiry claim of a bearer token without verifying
// its signature. The server remains the authority on token validity; this
// package exists only so the client can notice expiry locally and log the
// user out before the server has to say no.
//
// The failure policy is load-bearing: a missing, truncated, or undecodable
// token is reported as expired, never as unknown. A token whose payload
// simply lacks an exp claim is NOT expired: the server issued it without a
// deadline and the client must not invent one.
package token

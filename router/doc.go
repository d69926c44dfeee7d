// Package router models client-side navigation: a route table, a current
// location, and a chain of before-navigation hooks. It exists so the
// authentication guard has a transition point to intercept; it performs no
// rendering and no I/O.
//
// Guard decisions are synchronous and purely local. [AuthGuard] consults the
// session store in memory and never makes a network round-trip, so a
// navigation can never hang on a slow server.
package router

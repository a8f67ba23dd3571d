package server

import (
	"net/http"
	"slices"
)

// OriginChecker gates websocket upgrades by the Origin header. A single "*"
// entry allows every origin.
type OriginChecker struct {
	allowAll bool
	allowed  []string
}

func NewOriginChecker(origins []string) *OriginChecker {
	return &OriginChecker{
		allowAll: slices.Contains(origins, "*"),
		allowed:  origins,
	}
}

func (c *OriginChecker) Check(r *http.Request) bool {
	if c.allowAll {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	return slices.Contains(c.allowed, origin)
}

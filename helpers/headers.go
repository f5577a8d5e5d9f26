package helpers

import (
	"net/http"
	"strings"
)

// HeaderReplication marks a request as peer replication traffic. The receiving registry applies the
// mutation with isReplication=true and does not forward it again.
const HeaderReplication = "X-Discovery-Replication"

// HeaderIdentity carries the node id of the sending registry.
const HeaderIdentity = "X-Discovery-Identity"

// IsReplication reports whether the request carries HeaderReplication=true (case-insensitive value).
//
// Called from handlers for every mutating endpoint and from the fetch rate limiter, which never throttles
// peers.
func IsReplication(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderReplication)), "true")
}

// SetReplication marks an outgoing peer request as replication traffic and stamps the sender identity.
// An empty identity leaves HeaderIdentity unset.
func SetReplication(r *http.Request, identity string) {
	r.Header.Set(HeaderReplication, "true")
	if identity != "" {
		r.Header.Set(HeaderIdentity, identity)
	}
}

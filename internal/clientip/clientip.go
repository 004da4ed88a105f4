// Package clientip resolves the most plausible originating client address of a request.
//
// Proxy headers are client-spoofable unless a controlled upstream proxy overwrites them. The key
// order below is the operator-asserted trust priority; nothing here validates or authenticates the
// forwarding chain, and the returned value is not checked to be a syntactically valid IP.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when neither a candidate key nor the peer address yields a value.
const Unknown = "unknown"

// keys is the fixed lookup order.
//
// HTTP_CLIENT_IP is trivially spoofable yet is consulted first. The order is kept as deployed and
// flagged for operator review instead of being silently reordered.
var keys = [...]string{
	"HTTP_CLIENT_IP",
	"HTTP_X_FORWARDED_FOR",
	"HTTP_X_FORWARDED",
	"HTTP_X_CLUSTER_CLIENT_IP",
	"HTTP_FORWARDED_FOR",
	"HTTP_FORWARDED",
	"REMOTE_ADDR",
}

// Keys returns a copy of the ordered candidate keys.
func Keys() []string {
	out := make([]string, len(keys))
	copy(out, keys[:])
	return out
}

// Source is a read-only view over request server variables.
type Source interface {
	Lookup(key string) (string, bool)
}

// ServerVars is a CGI-style server variable bag (HTTP_* headers plus REMOTE_ADDR).
type ServerVars map[string]string

func (v ServerVars) Lookup(key string) (string, bool) {
	val, ok := v[key]
	return val, ok
}

// Resolve returns the first hop of the first candidate key that has one, or peer when none does.
// A blank first hop counts as absent.
func Resolve(src Source, peer string) string {
	if src != nil {
		for _, key := range keys {
			val, ok := src.Lookup(key)
			if !ok || val == "" {
				continue
			}
			first, _, _ := strings.Cut(val, ",")
			if first = strings.TrimSpace(first); first == "" {
				continue
			}
			return first
		}
	}

	if peer = strings.TrimSpace(peer); peer != "" {
		return peer
	}
	return Unknown
}

// FromRequest converts request headers into server variables. Repeated header lines are joined
// with ", " the same way proxies fold them.
func FromRequest(r *http.Request) ServerVars {
	vars := ServerVars{}
	if r == nil {
		return vars
	}

	for name, values := range r.Header {
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		vars[key] = strings.Join(values, ", ")
	}
	if peer := PeerAddr(r); peer != "" {
		vars["REMOTE_ADDR"] = peer
	}
	return vars
}

// PeerAddr returns the host part of the transport-layer remote address.
func PeerAddr(r *http.Request) string {
	if r == nil {
		return ""
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}
	return host
}

// ResolveRequest resolves the client address of r.
func ResolveRequest(r *http.Request) string {
	return Resolve(FromRequest(r), PeerAddr(r))
}

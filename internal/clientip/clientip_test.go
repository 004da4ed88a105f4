package clientip

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		vars ServerVars
		peer string
		want string
	}{
		{
			name: "remote addr only",
			vars: ServerVars{"REMOTE_ADDR": "203.0.113.5"},
			peer: "10.9.9.9",
			want: "203.0.113.5",
		},
		{
			name: "forwarded for takes first hop",
			vars: ServerVars{"HTTP_X_FORWARDED_FOR": "198.51.100.7, 10.0.0.1", "REMOTE_ADDR": "10.0.0.1"},
			want: "198.51.100.7",
		},
		{
			name: "empty client ip falls through",
			vars: ServerVars{"HTTP_CLIENT_IP": "", "HTTP_X_FORWARDED_FOR": "192.0.2.9"},
			want: "192.0.2.9",
		},
		{
			name: "whitespace client ip falls through to peer",
			vars: ServerVars{"HTTP_CLIENT_IP": "   "},
			peer: "10.1.1.1",
			want: "10.1.1.1",
		},
		{
			name: "leading comma counts as blank hop",
			vars: ServerVars{"HTTP_X_FORWARDED_FOR": ", 10.0.0.1"},
			peer: "10.1.1.1",
			want: "10.1.1.1",
		},
		{
			name: "blank hop falls through to next key",
			vars: ServerVars{"HTTP_CLIENT_IP": " , ", "HTTP_X_FORWARDED": "192.0.2.44"},
			peer: "10.1.1.1",
			want: "192.0.2.44",
		},
		{
			name: "empty set uses peer",
			vars: ServerVars{},
			peer: "10.1.1.1",
			want: "10.1.1.1",
		},
		{
			name: "nil source uses peer",
			peer: "10.1.1.1",
			want: "10.1.1.1",
		},
		{
			name: "client ip wins over forwarded for",
			vars: ServerVars{"HTTP_CLIENT_IP": "1.1.1.1", "HTTP_X_FORWARDED_FOR": "2.2.2.2"},
			want: "1.1.1.1",
		},
		{
			name: "cluster client ip before forwarded",
			vars: ServerVars{"HTTP_X_CLUSTER_CLIENT_IP": "3.3.3.3", "HTTP_FORWARDED": "for=4.4.4.4"},
			want: "3.3.3.3",
		},
		{
			name: "surrounding whitespace trimmed",
			vars: ServerVars{"HTTP_X_FORWARDED": "   192.0.2.44   , 10.0.0.2"},
			want: "192.0.2.44",
		},
		{
			name: "value is not validated",
			vars: ServerVars{"HTTP_FORWARDED": "for=192.0.2.60;proto=http"},
			want: "for=192.0.2.60;proto=http",
		},
		{
			name: "nothing at all",
			vars: ServerVars{"HTTP_CLIENT_IP": ""},
			want: Unknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.vars, tc.peer))
		})
	}
}

func TestKeysReturnsCopy(t *testing.T) {
	got := Keys()
	assert.Equal(t, "HTTP_CLIENT_IP", got[0])
	assert.Equal(t, "REMOTE_ADDR", got[len(got)-1])

	got[0] = "HTTP_TAMPERED"
	assert.Equal(t, "HTTP_CLIENT_IP", Keys()[0])
}

func TestFromRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.3:51234"
	req.Header.Add("X-Forwarded-For", "198.51.100.7")
	req.Header.Add("X-Forwarded-For", "10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")

	vars := FromRequest(req)

	assert.Equal(t, "198.51.100.7, 10.0.0.1", vars["HTTP_X_FORWARDED_FOR"])
	assert.Equal(t, "test-agent", vars["HTTP_USER_AGENT"])
	assert.Equal(t, "10.0.0.3", vars["REMOTE_ADDR"])
	assert.Empty(t, FromRequest(nil))
}

func TestPeerAddr(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.168.1.50:54321", "192.168.1.50"},
		{"192.168.1.50", "192.168.1.50"},
		{"[::1]:8080", "::1"},
		{"[::1]", "::1"},
		{"", ""},
	}
	for _, tc := range tests {
		req := &http.Request{RemoteAddr: tc.remote}
		assert.Equal(t, tc.want, PeerAddr(req), "remote %q", tc.remote)
	}
	assert.Equal(t, "", PeerAddr(nil))
}

func TestResolveRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:4000"
	assert.Equal(t, "10.1.1.1", ResolveRequest(req))

	req.Header.Set("X-Forwarded-For", " 198.51.100.7 ,10.1.1.1")
	assert.Equal(t, "198.51.100.7", ResolveRequest(req))

	req.Header.Set("Client-Ip", "")
	assert.Equal(t, "198.51.100.7", ResolveRequest(req))
}

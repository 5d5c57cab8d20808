package signer

import (
	"net/http"
	"net/url"
	"strings"
)

// hostForHeader resolves the value of the signed host header. The
// explicit request host wins over the URL host. A port that is the
// default for the scheme (80 for http, 443 for https) is stripped; any
// other explicit port is kept, whatever the scheme.
func hostForHeader(req *http.Request) string {
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	port := portOnly(host)
	if port != "" && isDefaultPort(req.URL.Scheme, port) {
		return stripPort(host)
	}
	return host
}

// stripPort removes the port from a host:port string, handling IPv6
// bracket notation.
func stripPort(hostport string) string {
	colon := strings.IndexByte(hostport, ':')
	if colon == -1 {
		return hostport
	}
	if i := strings.IndexByte(hostport, ']'); i != -1 {
		return strings.TrimPrefix(hostport[:i], "[")
	}
	return hostport[:colon]
}

// portOnly returns the port part of a host:port string, or "" when no
// port is present.
func portOnly(hostport string) string {
	colon := strings.IndexByte(hostport, ':')
	if colon == -1 {
		return ""
	}
	if i := strings.Index(hostport, "]:"); i != -1 {
		return hostport[i+len("]:"):]
	}
	if strings.Contains(hostport, "]") {
		return ""
	}
	return hostport[colon+len(":"):]
}

// isDefaultPort reports whether port is the default for the scheme.
func isDefaultPort(scheme, port string) bool {
	if port == "" {
		return true
	}
	lowerScheme := strings.ToLower(scheme)
	return (lowerScheme == "http" && port == "80") ||
		(lowerScheme == "https" && port == "443")
}

// getURIPath extracts the escaped path component of u, handling opaque
// URLs. The empty path maps to "/".
func getURIPath(u *url.URL) string {
	var uriPath string

	if len(u.Opaque) > 0 {
		const schemeSep, pathSep, queryStart = "//", "/", "?"
		opaque := u.Opaque

		if idx := strings.Index(opaque, queryStart); idx >= 0 {
			opaque = opaque[:idx]
		}
		if strings.Index(opaque, schemeSep) == 0 {
			opaque = opaque[len(schemeSep):]
		}
		if idx := strings.Index(opaque, pathSep); idx >= 0 {
			uriPath = opaque[idx:]
		}
	} else {
		uriPath = u.EscapedPath()
	}

	if len(uriPath) == 0 {
		uriPath = "/"
	}

	return uriPath
}

package signer

import (
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestEscapePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		encodeSep bool
		expected  string
	}{
		{
			name:     "unreserved characters pass through",
			path:     "/foo/bar-baz_1.2~3",
			expected: "/foo/bar-baz_1.2~3",
		},
		{
			name:     "space is escaped",
			path:     "/my photos",
			expected: "/my%20photos",
		},
		{
			name:     "separator kept by default",
			path:     "/a/b/c",
			expected: "/a/b/c",
		},
		{
			name:      "separator escaped on request",
			path:      "/a/b",
			encodeSep: true,
			expected:  "%2Fa%2Fb",
		},
		{
			name:     "percent is escaped again",
			path:     "/a%2Fb",
			expected: "/a%252Fb",
		},
		{
			name:     "unicode is escaped bytewise",
			path:     "/é",
			expected: "/%C3%A9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapePath(tt.path, tt.encodeSep); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBuildCanonicalQuery(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		expected string
	}{
		{
			name:     "empty query",
			rawQuery: "",
			expected: "",
		},
		{
			name:     "sorted by key",
			rawQuery: "b=2&a=1",
			expected: "a=1&b=2",
		},
		{
			name:     "value with space is escaped",
			rawQuery: "x=a b",
			expected: "x=a%20b",
		},
		{
			name:     "parameter without equals has empty value",
			rawQuery: "flag&a=1",
			expected: "a=1&flag=",
		},
		{
			name:     "duplicate keys sorted by value",
			rawQuery: "Foo=z&Foo=a&Foo=m",
			expected: "Foo=a&Foo=m&Foo=z",
		},
		{
			name:     "existing escapes are not double encoded",
			rawQuery: "k=a%2Fb",
			expected: "k=a%2Fb",
		},
		{
			name:     "lowercase escapes are normalized",
			rawQuery: "k=a%2fb",
			expected: "k=a%2Fb",
		},
		{
			name:     "bare percent is escaped",
			rawQuery: "k=100%",
			expected: "k=100%25",
		},
		{
			name:     "empty segments are dropped",
			rawQuery: "a=1&&b=2",
			expected: "a=1&b=2",
		},
		{
			name:     "plus is percent encoded",
			rawQuery: "k=a+b",
			expected: "k=a%2Bb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildCanonicalQuery(tt.rawQuery); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFoldWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain value",
			input:    "test",
			expected: "test",
		},
		{
			name:     "leading and trailing trimmed",
			input:    " a   b \t",
			expected: "a b",
		},
		{
			name:     "tabs and newlines collapse",
			input:    "a\t\r\n b",
			expected: "a b",
		},
		{
			name:     "form feed and vertical tab collapse",
			input:    "a\f\vb",
			expected: "a b",
		},
		{
			name:     "single internal space kept",
			input:    "application/x-www-form-urlencoded; charset=utf-8",
			expected: "application/x-www-form-urlencoded; charset=utf-8",
		},
		{
			name:     "all whitespace",
			input:    " \t ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := foldWhitespace(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBuildCanonicalHeaders(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Host", "example.amazonaws.com")
	headers.Set("X-Amz-Date", "20150830T123600Z")
	headers.Set("Content-Type", "application/json")
	headers.Add("X-Amz-Meta-Tag", "one")
	headers.Add("X-Amz-Meta-Tag", " two ")

	signed, canonical := buildCanonicalHeaders(headers, IgnoredHeaders)

	expectedSigned := "content-type;host;x-amz-date;x-amz-meta-tag"
	if signed != expectedSigned {
		t.Errorf("expected signed headers %q, got %q", expectedSigned, signed)
	}

	expectedCanonical := "content-type:application/json\n" +
		"host:example.amazonaws.com\n" +
		"x-amz-date:20150830T123600Z\n" +
		"x-amz-meta-tag:one,two\n"
	if canonical != expectedCanonical {
		t.Errorf("expected canonical headers %q, got %q", expectedCanonical, canonical)
	}
}

func TestBuildCanonicalHeadersExcluded(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Host", "example.amazonaws.com")
	headers.Set("Connection", "keep-alive")
	headers.Set("User-Agent", "test-agent/1.0")
	headers.Set("X-Amzn-Trace-Id", "Root=1-abc")
	headers.Set("Expect", "100-continue")
	headers["connection"] = []string{"close"} // non-canonical key must be excluded too

	signed, canonical := buildCanonicalHeaders(headers, IgnoredHeaders)

	if signed != "host" {
		t.Errorf("expected only host to be signed, got %q", signed)
	}
	if canonical != "host:example.amazonaws.com\n" {
		t.Errorf("unexpected canonical headers %q", canonical)
	}
}

func TestBuildCredentialScope(t *testing.T) {
	tm := NewSigningTime(time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC))
	scope := BuildCredentialScope(tm, "us-east-1", "iam")

	expected := "20150830/us-east-1/iam/aws4_request"
	if scope != expected {
		t.Errorf("expected %s, got %s", expected, scope)
	}
}

func TestBuildAuthorizationHeader(t *testing.T) {
	got := buildAuthorizationHeader(
		"AKID/20150830/us-east-1/service/aws4_request",
		"host;x-amz-date",
		"deadbeef",
	)
	expected := "AWS4-HMAC-SHA256 Credential=AKID/20150830/us-east-1/service/aws4_request, " +
		"SignedHeaders=host;x-amz-date, Signature=deadbeef"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestGetURIPath(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "simple path",
			url:      "https://example.com/bucket/key",
			expected: "/bucket/key",
		},
		{
			name:     "root path",
			url:      "https://example.com/",
			expected: "/",
		},
		{
			name:     "no path",
			url:      "https://example.com",
			expected: "/",
		},
		{
			name:     "path with query",
			url:      "https://example.com/bucket/key?foo=bar",
			expected: "/bucket/key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}
			if got := getURIPath(u); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestHostForHeader(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		host     string
		expected string
	}{
		{
			name:     "default https port stripped",
			url:      "https://example.com:443/",
			expected: "example.com",
		},
		{
			name:     "default http port stripped",
			url:      "http://example.com:80/",
			expected: "example.com",
		},
		{
			name:     "non-default port kept",
			url:      "https://example.com:8443/",
			expected: "example.com:8443",
		},
		{
			name:     "http on https port kept",
			url:      "http://example.com:443/",
			expected: "example.com:443",
		},
		{
			name:     "unknown scheme port kept",
			url:      "ws://example.com:80/",
			expected: "example.com:80",
		},
		{
			name:     "explicit host wins",
			url:      "https://ignored.example.com/",
			host:     "virtual.example.com",
			expected: "virtual.example.com",
		},
		{
			name:     "no port",
			url:      "https://example.com/",
			expected: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}
			req := &http.Request{URL: u, Host: tt.host}
			if got := hostForHeader(req); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

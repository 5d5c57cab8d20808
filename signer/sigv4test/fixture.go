// Package sigv4test loads SigV4 conformance fixtures: directories
// holding a raw request, the expected signed request, and the signing
// context (credentials, region, service, fixed timestamp). The signer's
// own conformance test walks these; the package is exported so
// downstream implementations can run the same corpus.
package sigv4test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RawRequest is the wire-level form of a fixture request: the request
// line pieces plus headers and optional body, before any signing.
type RawRequest struct {
	Method string
	// URI is the request target as written, path plus raw query.
	URI    string
	Host   string
	Header http.Header
	Body   []byte
}

// Credentials mirrors the "credentials" object of context.json.
type Credentials struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Token           string `json:"token"`
}

// Properties mirrors the "properties" object of context.json. Timestamp
// is the fixed signing instant of the case.
type Properties struct {
	Service   string    `json:"service"`
	Region    string    `json:"region"`
	Timestamp time.Time `json:"timestamp"`
}

// Context is the parsed context.json of a fixture.
type Context struct {
	Credentials Credentials `json:"credentials"`
	Properties  Properties  `json:"properties"`
}

// Case is one loaded fixture directory.
type Case struct {
	Name    string
	Request *RawRequest
	Signed  *RawRequest
	Context Context
}

// LoadCase reads request.txt, signed.txt and context.json from dir.
func LoadCase(dir string) (*Case, error) {
	reqText, err := os.ReadFile(filepath.Join(dir, "request.txt"))
	if err != nil {
		return nil, err
	}
	request, err := ParseRequestText(reqText)
	if err != nil {
		return nil, fmt.Errorf("%s: bad request.txt: %w", dir, err)
	}

	signedText, err := os.ReadFile(filepath.Join(dir, "signed.txt"))
	if err != nil {
		return nil, err
	}
	signed, err := ParseRequestText(signedText)
	if err != nil {
		return nil, fmt.Errorf("%s: bad signed.txt: %w", dir, err)
	}

	ctxData, err := os.ReadFile(filepath.Join(dir, "context.json"))
	if err != nil {
		return nil, err
	}
	var sctx Context
	if err := json.Unmarshal(ctxData, &sctx); err != nil {
		return nil, fmt.Errorf("%s: bad context.json: %w", dir, err)
	}

	return &Case{
		Name:    filepath.Base(dir),
		Request: request,
		Signed:  signed,
		Context: sctx,
	}, nil
}

// ParseRequestText parses the fixture request format: a
// "METHOD PATH HTTP/1.1" request line, one "Name:value" header per line
// with the first colon as separator, a blank line, then an optional
// body. Only HTTP/1.1 is supported.
func ParseRequestText(data []byte) (*RawRequest, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	head, body, _ := strings.Cut(text, "\n\n")

	lines := strings.Split(head, "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("missing request line")
	}

	parts := strings.Split(lines[0], " ")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed request line %q", lines[0])
	}
	if parts[2] != "HTTP/1.1" {
		return nil, fmt.Errorf("unsupported protocol version %q", parts[2])
	}

	req := &RawRequest{
		Method: parts[0],
		URI:    parts[1],
		Header: make(http.Header),
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header line %q", line)
		}
		key := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name))
		if key == "Host" {
			req.Host = value
			continue
		}
		req.Header.Add(key, value)
	}

	if body != "" {
		// Trailing newline of the file is not part of the body.
		req.Body = []byte(strings.TrimSuffix(body, "\n"))
	}

	return req, nil
}

// HTTPRequest converts the raw form to an *http.Request ready for
// signing, with an https URL built from the host header and request
// target.
func (r *RawRequest) HTTPRequest() (*http.Request, error) {
	u, err := url.ParseRequestURI(r.URI)
	if err != nil {
		return nil, fmt.Errorf("bad request target %q: %w", r.URI, err)
	}
	u.Scheme = "https"
	u.Host = r.Host

	req := &http.Request{
		Method: r.Method,
		URL:    u,
		Host:   r.Host,
		Header: r.Header.Clone(),
	}
	if r.Body != nil {
		req.Body = io.NopCloser(bytes.NewReader(r.Body))
		req.ContentLength = int64(len(r.Body))
	}
	return req, nil
}

// FromHTTPRequest flattens a signed *http.Request back to the raw form
// for comparison against a fixture's signed.txt.
func FromHTTPRequest(req *http.Request, body []byte) *RawRequest {
	return &RawRequest{
		Method: req.Method,
		URI:    req.URL.RequestURI(),
		Host:   req.Host,
		Header: req.Header.Clone(),
		Body:   body,
	}
}

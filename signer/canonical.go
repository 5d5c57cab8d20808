package signer

import (
	"bytes"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
)

// noEscape marks the unreserved characters of RFC 3986 section 2.3, the
// only bytes that survive SigV4 percent-encoding unescaped.
var noEscape [256]bool

func init() {
	for i := range noEscape {
		c := byte(i)
		noEscape[i] = (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~'
	}
}

const upperhex = "0123456789ABCDEF"

func writeEscaped(b *strings.Builder, c byte) {
	b.WriteByte('%')
	b.WriteByte(upperhex[c>>4])
	b.WriteByte(upperhex[c&0xf])
}

// escapePath percent-encodes a URI path in Amazon style: every byte is
// escaped except the unreserved set and, when encodeSep is false, the
// path separator.
func escapePath(path string, encodeSep bool) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		if noEscape[c] || (c == '/' && !encodeSep) {
			b.WriteByte(c)
		} else {
			writeEscaped(&b, c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}

// escapeQueryComponent percent-encodes one query key or value. Octets
// that already form a valid percent escape pass through (normalized to
// upper case) rather than being encoded a second time.
func escapeQueryComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case noEscape[c]:
			b.WriteByte(c)
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteString(strings.ToUpper(s[i : i+3]))
			i += 2
		default:
			writeEscaped(&b, c)
		}
	}
	return b.String()
}

// buildCanonicalQuery normalizes a raw query string: parameters are split
// on '&', each at its first '=' (no '=' means an empty value), key and
// value are escaped independently, and the entries are sorted by encoded
// key, then encoded value.
func buildCanonicalQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	type param struct {
		key, value string
	}
	var params []param
	for _, p := range strings.Split(rawQuery, "&") {
		if p == "" {
			continue
		}
		key, value, _ := strings.Cut(p, "=")
		params = append(params, param{
			key:   escapeQueryComponent(key),
			value: escapeQueryComponent(value),
		})
	}

	sort.Slice(params, func(i, j int) bool {
		if params[i].key != params[j].key {
			return params[i].key < params[j].key
		}
		return params[i].value < params[j].value
	})

	var b strings.Builder
	b.Grow(len(rawQuery))
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}

func isFoldableSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}

// foldWhitespace trims leading and trailing whitespace from a header
// value and collapses every internal whitespace run to a single space.
func foldWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isFoldableSpace(c) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// buildCanonicalHeaders produces the signed headers list and the
// canonical header block from an already-complete header set (host,
// x-amz-date and friends included). Names are lowercased and sorted;
// multiple values of one header are joined with ','; each line ends with
// '\n'. Headers rejected by rule are left out of the signature entirely.
func buildCanonicalHeaders(header http.Header, rule Rule) (signedHeaders, canonicalHeaders string) {
	names := make([]string, 0, len(header))
	byName := make(map[string][]string, len(header))
	for k, v := range header {
		if !rule.IsValid(textproto.CanonicalMIMEHeaderKey(k)) {
			continue
		}
		lower := strings.ToLower(k)
		if _, ok := byName[lower]; !ok {
			names = append(names, lower)
		}
		byName[lower] = append(byName[lower], v...)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		for i, v := range byName[name] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(foldWhitespace(v))
		}
		b.WriteByte('\n')
	}
	return strings.Join(names, ";"), b.String()
}

// writeCanonicalRequest assembles the canonical request into buf:
//
//	METHOD \n URI \n QUERY \n HEADERS \n SIGNED_HEADERS \n PAYLOAD_HASH
//
// with no trailing newline. The header block carries its own final '\n'.
func writeCanonicalRequest(buf *bytes.Buffer, method, uri, query, canonicalHeaders, signedHeaders, payloadHash string) {
	buf.WriteString(method)
	buf.WriteByte('\n')
	buf.WriteString(uri)
	buf.WriteByte('\n')
	buf.WriteString(query)
	buf.WriteByte('\n')
	buf.WriteString(canonicalHeaders)
	buf.WriteByte('\n')
	buf.WriteString(signedHeaders)
	buf.WriteByte('\n')
	buf.WriteString(payloadHash)
}

// BuildCredentialScope builds the scope binding a derived key:
// date/region/service/aws4_request.
func BuildCredentialScope(t SigningTime, region, service string) string {
	return strings.Join([]string{
		t.ShortTimeFormat(),
		region,
		service,
		"aws4_request",
	}, "/")
}

// buildAuthorizationHeader renders the final Authorization header value.
func buildAuthorizationHeader(credentialStr, signedHeadersStr, signature string) string {
	const credential = "Credential="
	const signedHeaders = "SignedHeaders="
	const signatureKey = "Signature="
	const commaSpace = ", "

	var parts strings.Builder
	parts.Grow(
		len(SigningAlgorithm) + 1 +
			len(credential) + len(credentialStr) + 2 +
			len(signedHeaders) + len(signedHeadersStr) + 2 +
			len(signatureKey) + len(signature),
	)
	parts.WriteString(SigningAlgorithm)
	parts.WriteRune(' ')
	parts.WriteString(credential)
	parts.WriteString(credentialStr)
	parts.WriteString(commaSpace)
	parts.WriteString(signedHeaders)
	parts.WriteString(signedHeadersStr)
	parts.WriteString(commaSpace)
	parts.WriteString(signatureKey)
	parts.WriteString(signature)
	return parts.String()
}

package signer

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

const defaultScratchPoolSize = 16

// SignerOptions configures a Signer.
type SignerOptions struct {
	// DisableURIPathEscaping turns off the second escaping pass over the
	// URI path in the canonical request. S3-compatible services sign the
	// path as-is and need this set.
	//
	// http://docs.aws.amazon.com/general/latest/gr/sigv4-create-canonical-request.html
	DisableURIPathEscaping bool

	// LogSigning enables debug logging of the canonical request and the
	// string to sign for every signed request.
	LogSigning bool

	// Logger receives signing logs. Defaults to the logrus standard
	// logger.
	Logger logrus.FieldLogger

	// KeyCache is the derived-key cache the signer consults. Inject one
	// to share derived keys across several signers; when nil each Signer
	// owns a private cache of DefaultKeyCacheCapacity entries.
	KeyCache *SigningKeyCache

	// ScratchPoolSize bounds the number of idle scratch buffers kept for
	// reuse. Zero means the default.
	ScratchPoolSize int
}

// Signer applies AWS Signature Version 4 signing to HTTP requests. A
// Signer is immutable after construction and safe for concurrent use.
type Signer struct {
	options  SignerOptions
	keyCache *SigningKeyCache
	pool     *Pool[*scratch]
}

// NewSigner creates a Signer, applying any option functions over the
// defaults.
func NewSigner(optFns ...func(*SignerOptions)) *Signer {
	options := SignerOptions{}
	for _, fn := range optFns {
		fn(&options)
	}

	if options.Logger == nil {
		options.Logger = logrus.StandardLogger()
	}

	keyCache := options.KeyCache
	if keyCache == nil {
		// Capacity constant is known good, the error path is unreachable.
		keyCache, _ = NewSigningKeyCache(DefaultKeyCacheCapacity)
	}

	poolSize := options.ScratchPoolSize
	if poolSize <= 0 {
		poolSize = defaultScratchPoolSize
	}
	pool, _ := NewPool(poolSize, newScratch)

	return &Signer{
		options:  options,
		keyCache: keyCache,
		pool:     pool,
	}
}

// Sign computes the SigV4 signature of req and attaches the
// Authorization header along with X-Amz-Date and, when applicable,
// X-Amz-Content-Sha256 and X-Amz-Security-Token. Only those headers and
// the request host are touched; everything else on the request is left
// alone, and a failed sign never touches the headers or host.
//
// The body, if any, is fully read into memory to compute the payload
// hash and replaced with the buffered copy, so Sign must not be handed
// bodies too large to buffer. The replacement happens even when Sign
// fails after the read, leaving the request usable for a retry. Reading
// the body is the only point that performs I/O; ctx cancellation aborts
// the operation there.
func (s *Signer) Sign(ctx context.Context, req *http.Request, identity Identity, props SigningProperties) error {
	if err := props.Validate(); err != nil {
		return fmt.Errorf("invalid signing properties: %w", err)
	}

	signingTime := NewSigningTime(props.clock())

	sc := s.pool.Acquire()
	defer s.pool.Release(sc)
	sc.reset()

	// Per net/http, a client request with a non-nil Body and a zero
	// ContentLength has a body of unknown length, not an empty one.
	unknownLength := req.Body != nil && req.Body != http.NoBody &&
		req.ContentLength <= 0

	payload, err := readPayload(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to read request payload: %w", err)
	}
	payloadHash := sc.sumHex(payload)

	// Bodies of unknown length carry the payload hash as an explicit
	// signed header. A zero-length read resolves an unknown length to
	// empty, so only a declared-unknown or non-empty body qualifies.
	hashHeader := unknownLength && (req.ContentLength < 0 || len(payload) > 0)

	host := hostForHeader(req)

	headers := make(http.Header, len(req.Header)+4)
	for k, v := range req.Header {
		headers[k] = v
	}
	headers.Set("Host", host)
	headers.Set(AmzDateKey, signingTime.TimeFormat())
	if hashHeader {
		headers.Set(AmzContentSHAKey, payloadHash)
	}
	if identity.SessionToken != "" {
		headers.Set(AmzSecurityTokenKey, identity.SessionToken)
	}

	signedHeadersStr, canonicalHeaderStr := buildCanonicalHeaders(headers, IgnoredHeaders)

	canonicalURI := getURIPath(req.URL)
	if !s.options.DisableURIPathEscaping {
		canonicalURI = escapePath(canonicalURI, false)
	}

	sc.buf.Reset()
	writeCanonicalRequest(
		&sc.buf,
		req.Method,
		canonicalURI,
		buildCanonicalQuery(req.URL.RawQuery),
		canonicalHeaderStr,
		signedHeadersStr,
		payloadHash,
	)

	canonicalHash := sc.sumHex(sc.buf.Bytes())
	if s.options.LogSigning {
		s.options.Logger.WithFields(logrus.Fields{
			"service": props.SigningName,
			"region":  props.Region,
		}).Debugf("canonical request:\n%s", sc.buf.String())
	}

	scope := BuildCredentialScope(signingTime, props.Region, props.SigningName)

	sc.buf.Reset()
	sc.buf.WriteString(SigningAlgorithm)
	sc.buf.WriteByte('\n')
	sc.buf.WriteString(signingTime.TimeFormat())
	sc.buf.WriteByte('\n')
	sc.buf.WriteString(scope)
	sc.buf.WriteByte('\n')
	sc.buf.WriteString(canonicalHash)

	if s.options.LogSigning {
		s.options.Logger.WithFields(logrus.Fields{
			"service": props.SigningName,
			"region":  props.Region,
		}).Debugf("string to sign:\n%s", sc.buf.String())
	}

	key := s.signingKey(identity, props.Region, props.SigningName, signingTime)
	signature := hex.EncodeToString(HMACSHA256(key, sc.buf.Bytes()))

	// All fallible work is done; apply the result to the request.
	req.Host = host
	req.Header.Set(AmzDateKey, signingTime.TimeFormat())
	if hashHeader {
		req.Header.Set(AmzContentSHAKey, payloadHash)
	}
	if identity.SessionToken != "" {
		req.Header.Set(AmzSecurityTokenKey, identity.SessionToken)
	}
	req.Header.Set(AuthorizationHeader,
		buildAuthorizationHeader(identity.AccessKeyID+"/"+scope, signedHeadersStr, signature))

	return nil
}

// signingKey returns the derived key for the identity and scope, reusing
// a cached key when it is still valid for the signing day and deriving
// and caching a fresh one otherwise.
func (s *Signer) signingKey(identity Identity, region, service string, t SigningTime) []byte {
	ck := CacheKey{
		SecretAccessKey: identity.SecretAccessKey,
		Region:          region,
		Service:         service,
	}
	if k, ok := s.keyCache.Get(ck); ok && k.ValidAt(t.Time) {
		return k.Key
	}

	key := DeriveKey(identity.SecretAccessKey, t.ShortTimeFormat(), region, service)
	s.keyCache.Put(ck, NewSigningKey(key, t.Time))
	return key
}

// readPayload buffers the full request body, honoring ctx cancellation.
// A nil body yields a nil payload. As soon as the read succeeds the
// consumed body is replaced with the buffered copy, so the request stays
// usable even when a later step fails.
func readPayload(ctx context.Context, req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(payload))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return payload, nil
}

package signer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Transport is an http.RoundTripper that signs every outgoing request
// with SigV4 before delegating to a base transport. Credentials are
// resolved per request from an aws-sdk-go-v2 provider, so the transport
// composes with any SDK credential chain (static keys, environment,
// IMDS, SSO, assumed roles).
//
//	client := &http.Client{
//		Transport: signer.NewTransport(s, provider, "us-east-1", "execute-api"),
//	}
type Transport struct {
	// Base performs the actual round trip after signing. Defaults to
	// http.DefaultTransport.
	Base http.RoundTripper

	// Credentials supplies the identity used for signing.
	Credentials aws.CredentialsProvider

	// Region and Service are bound into the credential scope of every
	// signature.
	Region  string
	Service string

	// Signer computes the signatures.
	Signer *Signer

	// Now overrides the signing clock, mostly for tests.
	Now func() time.Time
}

// NewTransport wires a signing round tripper around
// http.DefaultTransport.
func NewTransport(s *Signer, credentials aws.CredentialsProvider, region, service string) *Transport {
	return &Transport{
		Credentials: credentials,
		Region:      region,
		Service:     service,
		Signer:      s,
	}
}

// RoundTrip signs a clone of req and sends it via the base transport.
// The caller's request is never modified.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Signer == nil {
		return nil, fmt.Errorf("transport has no signer")
	}
	if t.Credentials == nil {
		return nil, fmt.Errorf("transport has no credentials provider")
	}

	creds, err := t.Credentials.Retrieve(req.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve credentials: %w", err)
	}

	signed := req.Clone(req.Context())
	identity := Identity{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
	}
	props := SigningProperties{
		Region:      t.Region,
		SigningName: t.Service,
		Now:         t.Now,
	}
	if err := t.Signer.Sign(req.Context(), signed, identity, props); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(signed)
}

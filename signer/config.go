package signer

import (
	"fmt"
	"time"
)

// Identity is a long-term AWS credential supplied per signing call. The
// zero SessionToken means a permanent credential; a non-empty token marks
// temporary credentials and is attached as X-Amz-Security-Token.
type Identity struct {
	// AccessKeyID is the AWS access key ID.
	AccessKeyID string

	// SecretAccessKey is the AWS secret access key.
	SecretAccessKey string

	// SessionToken is the optional session token of temporary
	// credentials.
	SessionToken string
}

// SigningProperties carries the per-call signing parameters. Region and
// SigningName are required; Now is the optional clock used to resolve the
// signing instant and defaults to the system UTC clock.
type SigningProperties struct {
	// Region is the AWS region the request is signed for, e.g.
	// "us-east-1".
	Region string

	// SigningName is the service signing name bound into the credential
	// scope, e.g. "s3" or "execute-api".
	SigningName string

	// Now returns the signing instant. Leave nil for time.Now. Fixing
	// the clock makes signing fully deterministic, which the test
	// fixtures rely on.
	Now func() time.Time
}

// Validate reports whether the required signing properties are present.
// Sign calls this before doing any cryptographic work.
func (p *SigningProperties) Validate() error {
	if p.Region == "" {
		return fmt.Errorf("signing region is required")
	}
	if p.SigningName == "" {
		return fmt.Errorf("signing name is required")
	}
	return nil
}

func (p *SigningProperties) clock() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"
)

// SigningKey pairs a derived 32-byte signing key with the UTC day it was
// derived for. Values are immutable; a stale key is replaced wholesale,
// never mutated.
type SigningKey struct {
	// Key is the derived HMAC-SHA256 signing key.
	Key []byte

	// Day is the UTC day of the derivation instant, in days since the
	// Unix epoch.
	Day int64
}

// NewSigningKey stamps key with the UTC day of t.
func NewSigningKey(key []byte, t time.Time) SigningKey {
	return SigningKey{
		Key: key,
		Day: epochDay(t),
	}
}

// ValidAt reports whether the key may sign a request at instant t. A key
// is only usable on the exact UTC calendar day it was derived for.
func (k SigningKey) ValidAt(t time.Time) bool {
	return k.Key != nil && k.Day == epochDay(t)
}

// DeriveKey derives the scope-bound signing key from a secret access key.
// It implements the SigV4 derivation chain, where each HMAC uses the
// previous output as key and the next scope literal as message:
//
//	kDate    = HMAC-SHA256("AWS4"+secret, dateStamp)
//	kRegion  = HMAC-SHA256(kDate, region)
//	kService = HMAC-SHA256(kRegion, service)
//	kSigning = HMAC-SHA256(kService, "aws4_request")
//
// dateStamp must be the scope date in YYYYMMDD form.
func DeriveKey(secretAccessKey, dateStamp, region, service string) []byte {
	kDate := HMACSHA256([]byte("AWS4"+secretAccessKey), []byte(dateStamp))
	kRegion := HMACSHA256(kDate, []byte(region))
	kService := HMACSHA256(kRegion, []byte(service))
	return HMACSHA256(kService, []byte("aws4_request"))
}

// HMACSHA256 computes HMAC-SHA256 of data with the given key.
func HMACSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

package signer

// Signature Version 4 protocol constants.

const (
	// SigningAlgorithm is the SigV4 signing algorithm identifier.
	SigningAlgorithm = "AWS4-HMAC-SHA256"

	// EmptyStringSHA256 is the hex encoded SHA-256 hash of the empty
	// string, the payload hash of a request with no body.
	EmptyStringSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	// AuthorizationHeader carries the final signature.
	AuthorizationHeader = "Authorization"

	// AmzDateKey is the header key for the request timestamp.
	// Format: YYYYMMDDTHHMMSSZ (e.g. 20231201T120000Z)
	AmzDateKey = "X-Amz-Date"

	// AmzContentSHAKey is the header key for the request body SHA-256
	// hash. It is attached only when the body length is unknown up front.
	AmzContentSHAKey = "X-Amz-Content-Sha256"

	// AmzSecurityTokenKey carries the session token of temporary
	// credentials.
	AmzSecurityTokenKey = "X-Amz-Security-Token"

	// TimeFormat is the time format of the X-Amz-Date header.
	TimeFormat = "20060102T150405Z"

	// ShortTimeFormat is the date-only format used in the credential
	// scope.
	ShortTimeFormat = "20060102"
)

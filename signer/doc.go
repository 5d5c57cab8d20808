/*
Package signer implements AWS Signature Version 4 (SigV4) request signing.

Given an HTTP request, a long-term credential and a set of signing
properties (region, service name, optional clock), Sign deterministically
derives the Authorization header and its companion headers so that an
AWS-compatible service can verify the request. See
https://docs.aws.amazon.com/IAM/latest/UserGuide/signing-elements.html for
the authoritative description of the protocol.

The signer keeps two pieces of shared state. Derived signing keys are held
in a fixed-capacity FIFO cache keyed by secret, region and service, since a
key stays valid for a whole UTC day and re-deriving it costs four HMAC
rounds. Cryptographic scratch state (SHA-256 digest, working buffer) is
recycled through a bounded pool so that concurrent signing operations do
not allocate a fresh digest per request. Both are safe for concurrent use;
a single Signer may be shared by any number of goroutines.

Presigned URLs (query-string signing), chunked/streaming signatures and
the UNSIGNED-PAYLOAD mode are not supported: the request body is always
fully buffered to compute its hash.
*/
package signer

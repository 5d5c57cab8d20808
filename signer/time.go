package signer

import "time"

// SigningTime wraps the signing instant with lazily cached format strings,
// avoiding repeated formatting while one request is being signed.
type SigningTime struct {
	time.Time
	timeFormat      string
	shortTimeFormat string
}

// NewSigningTime creates a SigningTime from t. The time is normalized to
// UTC; all SigV4 timestamps and day boundaries are UTC.
func NewSigningTime(t time.Time) SigningTime {
	return SigningTime{
		Time: t.UTC(),
	}
}

// TimeFormat returns the instant formatted for the X-Amz-Date header,
// e.g. 20150830T123600Z.
func (st *SigningTime) TimeFormat() string {
	if st.timeFormat == "" {
		st.timeFormat = st.Time.Format(TimeFormat)
	}
	return st.timeFormat
}

// ShortTimeFormat returns the date formatted for the credential scope,
// e.g. 20150830.
func (st *SigningTime) ShortTimeFormat() string {
	if st.shortTimeFormat == "" {
		st.shortTimeFormat = st.Time.Format(ShortTimeFormat)
	}
	return st.shortTimeFormat
}

// epochDay returns the UTC calendar day of t as days since the Unix
// epoch. Derived signing keys are valid for exactly one such day.
func epochDay(t time.Time) int64 {
	return t.UTC().Unix() / (24 * 60 * 60)
}

package domain

// PendingVerification is the ephemeral record linking an email to its
// currently valid code. PK: email — at most one live record per address;
// issuing a new code overwrites the old one in a single PutItem.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type PendingVerification struct {
	Email        string `json:"email" dynamodbav:"email"`
	Code         string `json:"code" dynamodbav:"code"`
	IssuedAt     int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt    int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	AttemptCount int    `json:"attempt_count" dynamodbav:"attempt_count"`
}

// Expired reports whether the code can no longer succeed.
// A code presented at exactly ExpiresAt is still valid.
func (v *PendingVerification) Expired(now int64) bool {
	return v.ExpiresAt < now
}

package storage

// AnonymousUserID is the bucket used for progress while nobody is signed in.
const AnonymousUserID = "anonymous"

const (
	SessionKey   = "session:current"
	DirectoryKey = "users:directory"

	progressKeyPrefix = "progress:"
)

// ProgressKey is the logical key holding the progress set of userID.
// An empty userID maps to the anonymous bucket.
func ProgressKey(userID string) string {
	if userID == "" {
		userID = AnonymousUserID
	}
	return progressKeyPrefix + userID
}

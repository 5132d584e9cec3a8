package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PreviewUUID derives the id for a preview of the given config path and nonce.
func PreviewUUID(configPath, nonce string) uuid.UUID {
	return UUID("go-pagekit:preview:" + strings.TrimSpace(configPath) + ":" + strings.TrimSpace(nonce))
}

// ConfigUUID derives a stable identifier for a page configuration path.
func ConfigUUID(path string) uuid.UUID {
	return UUID("go-pagekit:config:" + strings.ToLower(strings.TrimSpace(path)))
}

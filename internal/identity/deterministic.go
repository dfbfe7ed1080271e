package identity

import (
	"fmt"
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

func ProposalUUID(supplierID uuid.UUID, slug string) uuid.UUID {
	return UUID("go-marketplace:proposal:" + supplierID.String() + ":" + strings.ToLower(strings.TrimSpace(slug)))
}

func SupplierUUID(email string) uuid.UUID {
	return UUID("go-marketplace:supplier:" + strings.ToLower(strings.TrimSpace(email)))
}

func UploadUUID(proposalID uuid.UUID, fileName string) uuid.UUID {
	return UUID("go-marketplace:upload:" + proposalID.String() + ":" + strings.TrimSpace(fileName))
}

// DatasetUniqueID derives the public dataset identifier assigned at publish
// time. The value is stable for a given proposal.
func DatasetUniqueID(proposalID uuid.UUID) string {
	uid := UUID("go-marketplace:dataset:" + proposalID.String())
	compact := strings.ReplaceAll(uid.String(), "-", "")
	return fmt.Sprintf("DS-%s", strings.ToUpper(compact[:12]))
}

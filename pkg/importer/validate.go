package importer

import (
	"fmt"
	"strings"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
)

// validateSource gates the destructive phases. The export must look like
// production data before Clear may run: at least one account with a real
// contact address and at least one legacy password hash marker. A dump
// whose statements are present but decode to zero rows is also rejected,
// since downstream phases would silently import nothing.
func validateSource(src *source) error {
	if src.userStats.Statements > 0 && len(src.users) == 0 {
		return fmt.Errorf("users statement present but no rows decoded")
	}
	if src.termStats.Statements > 0 && src.termStats.Rows == 0 {
		return fmt.Errorf("terms statement present but no rows decoded")
	}

	if len(src.users) == 0 {
		return fmt.Errorf("export has no user rows: %w", apperrors.ErrNotProductionData)
	}

	var hasEmail, hasHash bool
	for _, u := range src.users {
		if strings.Contains(u.Email, "@") {
			hasEmail = true
		}
		if isLegacyHash(u.PassHash) {
			hasHash = true
		}
		if hasEmail && hasHash {
			return nil
		}
	}

	if !hasEmail {
		return fmt.Errorf("no contact address found in any user row: %w", apperrors.ErrNotProductionData)
	}
	return fmt.Errorf("no legacy password hash found in any user row: %w", apperrors.ErrNotProductionData)
}

// isLegacyHash reports whether a password field carries one of the phpass
// hash markers the legacy system produced.
func isLegacyHash(hash string) bool {
	return strings.HasPrefix(hash, "$P$") || strings.HasPrefix(hash, "$H$")
}

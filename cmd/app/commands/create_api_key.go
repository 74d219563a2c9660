package commands

import (
	"fmt"
	"io"
	"strings"

	authDomain "github.com/allisson/codepool/internal/auth/domain"
	authService "github.com/allisson/codepool/internal/auth/service"
)

// RunCreateAPIKey generates an API key for role. The plain key is printed once for the
// caller to hand over; only its Argon2id hash goes into configuration.
func RunCreateAPIKey(keys authService.APIKeyService, writer io.Writer, role string, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	var envVar string
	switch authDomain.Role(role) {
	case authDomain.RoleAdmin:
		envVar = "ADMIN_API_KEY_HASH"
	case authDomain.RoleStorefront:
		envVar = "STOREFRONT_API_KEY_HASH"
	default:
		return fmt.Errorf("invalid role: %s (valid options: admin, storefront)", role)
	}

	plain, hashed, err := keys.GenerateAPIKey()
	if err != nil {
		return fmt.Errorf("failed to generate api key: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"role":    role,
			"api_key": plain,
			"env_var": envVar,
			"hash":    hashed,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s API key. Store it now, it cannot be recovered.\n", role)
	fmt.Fprintf(&b, "API_KEY=\"%s\"\n\n", plain)
	b.WriteString("# Add the hash to the server environment\n")
	// Argon2id PHC strings contain "$", so single quotes keep shells from expanding them.
	fmt.Fprintf(&b, "%s='%s'\n", envVar, hashed)
	_, err = io.WriteString(writer, b.String())
	return err
}

package authjwt

import (
	"time"

	authdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/auth/domain"
)

// Provider defines the interface for JWT token operations.
type Provider interface {
	// GenerateToken signs a token for the identity's user and role.
	GenerateToken(identity authdomain.Identity, ttl time.Duration) (string, error)

	// ValidateToken validates a JWT token and returns the identity it carries.
	ValidateToken(tokenString string) (*authdomain.Identity, error)
}

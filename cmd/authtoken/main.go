package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
)

// Dev helper: mints a bearer token for a known profile id so the API can be
// exercised without the external identity provider.
func main() {
	userID := flag.String("user", "", "profile id (uuid)")
	name := flag.String("name", "Dev User", "display name")
	role := flag.String("role", "volunteer", "role: volunteer|donor|ngo")
	verified := flag.Bool("verified", true, "mark the identity verified")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: authtoken -user <uuid> [-role volunteer|donor|ngo]")
		os.Exit(2)
	}
	switch domain.Role(*role) {
	case domain.RoleVolunteer, domain.RoleDonor, domain.RoleNGO:
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, err := middleware.SignJWT(cfg.JWTSecret, domain.Identity{
		ID:       *userID,
		Name:     *name,
		Role:     domain.Role(*role),
		Verified: *verified,
	}, *expiry)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}

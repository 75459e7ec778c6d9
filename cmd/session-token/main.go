package main

import (
	"catalogo_server/config"
	"catalogo_server/lib"
	"catalogo_server/structs"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Mints a session token for local testing of the admin API, e.g.
//
//	go run ./cmd/session-token -role buyer -squads squad5
func main() {
	roleFlag := flag.String("role", structs.RoleSuperadmin, "Session role (superadmin, otter, squad5, ...)")
	squadsFlag := flag.String("squads", "", "Comma-separated squad memberships")
	userFlag := flag.String("user", "", "User ID (random when empty)")
	emailFlag := flag.String("email", "", "User email")
	ttlFlag := flag.Duration("ttl", 0, "Token lifetime (defaults to AUTH_SESSION_TOKEN_EXPIRY)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.GetConfig()

	if cfg.Auth.SessionTokenSecret == "" {
		fmt.Fprintln(os.Stderr, "Error: AUTH_SESSION_TOKEN_SECRET is not set")
		os.Exit(1)
	}

	session := &structs.Session{
		UserID: *userFlag,
		Email:  *emailFlag,
		Role:   strings.TrimSpace(*roleFlag),
		Squads: splitSquads(*squadsFlag),
	}
	if session.UserID == "" {
		session.UserID = uuid.NewString()
	}

	ttl := cfg.Auth.SessionTokenExpiry
	if *ttlFlag > 0 {
		ttl = *ttlFlag
	}

	token, err := lib.SignSession(session, cfg.Auth.SessionTokenSecret, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign session: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func splitSquads(raw string) []string {
	squads := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			squads = append(squads, part)
		}
	}
	return squads
}

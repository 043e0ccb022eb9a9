package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Mints an HS256 bearer token for exercising the API locally, signed with
// the same shared secret the server verifies against.
func main() {
	sub := flag.String("sub", "", "subject user id (random UUID when empty)")
	email := flag.String("email", "", "optional email claim")
	role := flag.String("role", "user", "role claim: user, lawyer, or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		log.Fatal("SUPABASE_JWT_SECRET environment variable is required")
	}

	subject := *sub
	if subject == "" {
		subject = uuid.New().String()
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": *role,
		"iat":  now.Unix(),
		"exp":  now.Add(*ttl).Unix(),
	}
	if *email != "" {
		claims["email"] = *email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("sub:   %s\n", subject)
	fmt.Printf("role:  %s\n", *role)
	fmt.Printf("token: %s\n", signed)
}

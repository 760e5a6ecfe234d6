package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/hotelops/hotel-admin-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "", "hash this password for ADMIN_PASSWORD_HASH")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	fmt.Println("===========================================")
	fmt.Println("Secret Generator for Hotel Admin Backend")
	fmt.Println("===========================================")
	fmt.Println()

	secrets, err := utils.NewJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("✅ Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secrets.Access)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", secrets.Refresh)

	if *password != "" {
		hash, err := services.HashPassword(*password, *cost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		// Single quotes keep the $ separators literal in shells and .env files
		fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
	}

	fmt.Println()
	fmt.Println("⚠️  IMPORTANT: Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}

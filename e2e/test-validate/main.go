package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/astro-web3/jwt-validator/pkg/client"
)

func main() {
	serverAddr := flag.String("addr", "http://localhost:8080", "jwt-validator base URL")
	extract := flag.Bool("extract", false, "extract claims instead of validating")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("Usage: %s [-addr url] [-extract] <jwt>", os.Args[0])
	}
	jwt := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*serverAddr)

	if !*extract {
		valid, err := c.Validate(ctx, jwt)
		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}
		if valid {
			fmt.Println("✅ Token VALID")
			return
		}
		fmt.Println("❌ Token INVALID")
		os.Exit(1)
	}

	claims, err := c.ExtractClaims(ctx, jwt)
	if errors.Is(err, client.ErrInvalidToken) {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}

	fmt.Println("📋 Claims:")
	names := make([]string, 0, len(claims))
	for name := range claims {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("   %s: %s\n", name, claims[name])
	}
}

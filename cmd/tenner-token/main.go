// tenner-token mints admin bearer tokens for the batch generation
// endpoint. The server only ever sees the public key; this tool holds the
// private one.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tennergrid/tenner-server/internal/config"
)

func main() {
	var (
		keyPath = flag.String("key", "", "path to RSA private key PEM")
		subject = flag.String("sub", "admin", "token subject")
		ttl     = flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *keyPath == "" {
		fmt.Fprintln(os.Stderr, "-key is required")
		os.Exit(2)
	}

	keyBytes, err := os.ReadFile(*keyPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to read private key:", err)
		os.Exit(1)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to parse private key:", err)
		os.Exit(1)
	}

	token, err := config.SignAdminToken(privateKey, *subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to sign token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

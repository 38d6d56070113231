// Command hash-generator prints password hashes in the format the account
// service stores, for seeding users directly into the database.
//
// Passwords are read one per line from stdin:
//
//	echo 'correct horse' | hash-generator -algorithm argon2id
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maacloud/account-api/internal/service/auth"
)

func main() {
	algorithm := flag.String("algorithm", auth.AlgorithmBcrypt, "hash algorithm: bcrypt or argon2id")
	cost := flag.Int("cost", 0, "bcrypt cost (0 selects the default)")
	flag.Parse()

	hasher, err := auth.NewPasswordHasher(*algorithm, *cost)
	if err != nil {
		slog.Error("invalid hasher settings", "error", err)
		os.Exit(2)
	}

	if err := hashAll(os.Stdin, os.Stdout, hasher); err != nil {
		slog.Error("failed to hash passwords", "error", err)
		os.Exit(1)
	}
}

// hashAll writes one hash line per non-empty input line.
func hashAll(r io.Reader, w io.Writer, hasher auth.PasswordHasher) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		password := scanner.Text()
		if password == "" {
			continue
		}
		hash, err := hasher.Encode(password)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if _, err := fmt.Fprintln(w, hash); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Package auth holds the pluggable credential policies guarding the chat.
package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
)

// AllowAll accepts any structurally valid username/credential pair.
// This is the default policy: the join gate exists to force clients through
// the authentication handshake, not to verify identities.
type AllowAll struct{}

func (AllowAll) Authenticate(username, credential string) error {
	err := ValidateJoin(JoinRequest{Username: username, Credential: credential})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrAuthentication, err)
	}
	return nil
}

// StaticCredentials verifies credentials against a fixed username -> Argon2id
// hash table loaded at startup. Unknown usernames are rejected.
type StaticCredentials struct {
	hashes map[string]string
}

// LoadStaticCredentials reads a credentials file with one "username:hash"
// entry per line. Blank lines and lines starting with '#' are skipped.
func LoadStaticCredentials(path string) (*StaticCredentials, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening credentials file: %w", err)
	}
	defer f.Close()

	hashes := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		username, hash, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("malformed credentials line: %q", line)
		}
		hashes[username] = hash
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &StaticCredentials{hashes: hashes}, nil
}

// NewStaticCredentials builds a policy from an in-memory table of
// username -> Argon2id hash. Mostly useful in tests.
func NewStaticCredentials(hashes map[string]string) *StaticCredentials {
	return &StaticCredentials{hashes: hashes}
}

func (s *StaticCredentials) Authenticate(username, credential string) error {
	if err := ValidateJoin(JoinRequest{Username: username, Credential: credential}); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrAuthentication, err)
	}
	hash, ok := s.hashes[username]
	if !ok {
		return fmt.Errorf("%w: unknown user", apperrors.ErrAuthentication)
	}
	match, err := CompareCredential(credential, hash)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrAuthentication, err)
	}
	if !match {
		return fmt.Errorf("%w: wrong credential", apperrors.ErrAuthentication)
	}
	return nil
}

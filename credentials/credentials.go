// Package credentials loads and checks the static username/password
// table used to authenticate control connections.
package credentials

import (
	"bufio"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Table is an immutable username -> password (or bcrypt hash) map,
// built once at startup and never mutated afterward.
type Table struct {
	entries map[string]string
}

// Load reads a flat "<username> <password>" file, one entry per
// non-empty line, separated by whitespace. A missing file is not an
// error: the server starts with an empty table, matching the reference
// behaviour of starting up without credentials rather than refusing to
// boot.
func Load(path string) (*Table, error) {
	t := &Table{entries: map[string]string{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("opening credentials file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		t.entries[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	return t, nil
}

// New builds a table directly from a map, mainly for tests.
func New(entries map[string]string) *Table {
	cp := make(map[string]string, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return &Table{entries: cp}
}

// isBcryptHash reports whether stored looks like a bcrypt hash rather
// than a plaintext password.
func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// Verify reports whether username/password is a valid pair. For a
// missing username it still runs a constant-time compare (of the
// password against itself) before returning false, so the call does
// not short-circuit; a bcrypt row takes longer than either compare.
func (t *Table) Verify(username, password string) bool {
	stored, ok := t.entries[username]
	if !ok {
		// run a compare anyway to avoid a short-circuit timing signal
		subtle.ConstantTimeCompare([]byte(password), []byte(password))
		return false
	}

	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// Len reports the number of loaded entries.
func (t *Table) Len() int {
	return len(t.entries)
}

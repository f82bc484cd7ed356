// credentials live in a shell-style file so the same secrets drive both the
// export scripts and this service. Only simple KEY=VALUE lines are parsed,
// no shell evaluation happens here.

package inventory

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Credentials are the Prism access values. Prism is optional and only used
// when no endpoint is configured.
type Credentials struct {
	User  string
	Pass  string
	Prism string
}

// LoadCredentials reads USER, PASS and PRISM from the given file. Lines may
// carry an `export ` prefix and single or double quoting; comments and
// blank lines are skipped. An empty path falls back to the process
// environment.
func LoadCredentials(path string) (Credentials, error) {
	if path == "" {
		return credsFromEnv()
	}

	f, err := os.Open(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials file: %w", err)
	}
	defer f.Close()

	var creds Credentials
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		switch strings.TrimSpace(key) {
		case "USER":
			creds.User = value
		case "PASS":
			creds.Pass = value
		case "PRISM":
			creds.Prism = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, fmt.Errorf("credentials file: %w", err)
	}
	if creds.User == "" || creds.Pass == "" {
		return Credentials{}, fmt.Errorf("credentials file %s missing USER or PASS", path)
	}
	return creds, nil
}

func credsFromEnv() (Credentials, error) {
	creds := Credentials{
		User:  os.Getenv("USER"),
		Pass:  os.Getenv("PASS"),
		Prism: os.Getenv("PRISM"),
	}
	if creds.User == "" || creds.Pass == "" {
		return Credentials{}, errors.New("no credentials file configured and USER/PASS not in environment")
	}
	return creds, nil
}

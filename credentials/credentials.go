// Package credentials discovers per-environment AWS credential bundles.
//
// Each environment is one <env>.ini file of shell-style export lines:
//
//	export AWS_ACCESS_KEY_ID="AKIA..."
//	export AWS_SECRET_ACCESS_KEY="..."
//	export AWS_SESSION_TOKEN="..."
//	export AWS_REGION="eu-central-1"
//
// Credentials are handed to the fetch layer as explicit values; nothing here
// touches process environment variables.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRegion applies when a bundle carries no AWS_REGION.
const DefaultRegion = "eu-central-1"

// ErrNoCredentials signals that the input directory held no credential files.
var ErrNoCredentials = errors.New("no credential files found")

// Credentials is one environment's credential bundle.
type Credentials struct {
	Environment     string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}

// Discover loads every *.ini bundle in dir. Results are ordered by file name
// so environment processing order is deterministic across runs.
func Discover(dir string) ([]Credentials, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read credential directory: %w", err)
	}

	var creds []Credentials
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ini") {
			continue
		}

		c, err := parseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("credential file %s: %w", entry.Name(), err)
		}
		c.Environment = strings.SplitN(entry.Name(), ".", 2)[0]
		creds = append(creds, c)
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCredentials, dir)
	}

	return creds, nil
}

// parseFile reads export lines from a single credential bundle.
func parseFile(path string) (Credentials, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from the scanned input dir
	if err != nil {
		return Credentials{}, err
	}
	defer func() { _ = file.Close() }()

	c := Credentials{Region: DefaultRegion}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "export ") {
			continue
		}

		key, value, found := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "export ")), "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)

		switch key {
		case "AWS_ACCESS_KEY_ID":
			c.AccessKeyID = value
		case "AWS_SECRET_ACCESS_KEY":
			c.SecretAccessKey = value
		case "AWS_SESSION_TOKEN":
			c.SessionToken = value
		case "AWS_REGION":
			c.Region = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, err
	}

	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return Credentials{}, fmt.Errorf("missing AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY")
	}

	return c, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognized key files: aws-access-key-id, aws-secret-access-key, aws-session-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/csv2parquet/internal/notify"
)

// Key file names for static AWS credentials.
const (
	AWSAccessKeyID     = "aws-access-key-id"
	AWSSecretAccessKey = "aws-secret-access-key"
	AWSSessionToken    = "aws-session-token"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are reported as warnings on n but do not abort.
func Load(dir string, n *notify.Notifier) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			n.Warnf("could not read secret %s: %v", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// AWSCredentials returns the static AWS credentials held in secrets. ok is
// false unless both the access key ID and the secret access key are present.
func AWSCredentials(secrets map[string]string) (id, secret, token string, ok bool) {
	id, secret = secrets[AWSAccessKeyID], secrets[AWSSecretAccessKey]
	if id == "" || secret == "" {
		return "", "", "", false
	}
	return id, secret, secrets[AWSSessionToken], true
}

// Package env implements a read-only credential store backed by environment variables. This is how most CI systems
// hand secrets to a job: the controller binds them into the environment of the process for the lifetime of a build.
package env

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/secretStore"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const fieldDelimiter = "__"

// Store is a snapshot of every credential variable present when it was created.
type Store struct {
	prefix string
	values *koanf.Koanf
}

// New loads every variable starting with prefix. A credential with id "docker-hub" and prefix
// "STEPPER_CREDENTIAL_" is read from STEPPER_CREDENTIAL_DOCKER_HUB__SECRET and optionally
// STEPPER_CREDENTIAL_DOCKER_HUB__USERNAME and STEPPER_CREDENTIAL_DOCKER_HUB__KIND.
//
// Ids are case-insensitive and every character other than a letter or digit maps to '_', so "docker-hub",
// "docker_hub" and "Docker.Hub" all name the same credential. Pick ids that stay distinct after that mapping.
func New(prefix string) (Store, error) {
	values := koanf.New(".")

	err := values.Load(env.Provider(prefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, prefix)
		id, field, ok := strings.Cut(key, fieldDelimiter)
		if !ok || id == "" || field == "" {
			return ""
		}

		return strings.ToLower(id) + "." + strings.ToLower(field)
	}), nil)
	if err != nil {
		return Store{}, err
	}

	return Store{
		prefix: prefix,
		values: values,
	}, nil
}

// VarName returns the name of the variable holding the given field of a credential.
func (store *Store) VarName(id, field string) string {
	return store.prefix + strings.ToUpper(normalize(id)) + fieldDelimiter + strings.ToUpper(field)
}

// normalize maps a credential id onto the characters allowed in a variable name.
func normalize(id string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, id)
}

// GetSecret returns the credential stored under key as JSON.
func (store *Store) GetSecret(key string) (string, error) {
	id := normalize(key)

	if !store.values.Exists(id + ".secret") {
		return "", secretStore.ErrEntityNotFound
	}

	username := store.values.String(id + ".username")

	kind := models.CredentialKindSecretText
	if username != "" {
		kind = models.CredentialKindUsernamePassword
	}

	if rawKind := store.values.String(id + ".kind"); rawKind != "" {
		parsedKind, err := models.ParseCredentialKind(rawKind)
		if err != nil {
			return "", fmt.Errorf("%s: %w", store.VarName(key, "kind"), err)
		}
		kind = parsedKind
	}

	credential := models.Credential{
		ID:       key,
		Kind:     kind,
		Username: username,
		Secret:   store.values.String(id + ".secret"),
	}

	return credential.ToJSON()
}

func (store *Store) ListSecretKeys(prefix string) ([]string, error) {
	keys := []string{}
	normalizedPrefix := normalize(prefix)

	for id := range store.values.Raw() {
		if !store.values.Exists(id + ".secret") {
			continue
		}

		if strings.HasPrefix(id, normalizedPrefix) {
			keys = append(keys, id)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

func (store *Store) PutSecret(_ string, _ string, _ bool) error {
	return secretStore.ErrReadOnly
}

func (store *Store) DeleteSecret(_ string) error {
	return secretStore.ErrReadOnly
}

// Package credentials resolves credential identifiers into secrets. Credentials are fetched fresh on every call and
// never cached.
package credentials

import (
	"errors"
	"fmt"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/secretStore"
)

var (
	// ErrMissingCredentialID is returned when an empty identifier is resolved.
	ErrMissingCredentialID = errors.New("credentials: credential id is required")

	// ErrWrongKind is returned when a credential exists but cannot serve the requested purpose.
	ErrWrongKind = errors.New("credentials: credential is of the wrong kind")
)

type Store struct {
	engine secretStore.Engine
}

func New(engine secretStore.Engine) *Store {
	return &Store{engine: engine}
}

// Get resolves a credential by id.
func (s *Store) Get(id string) (*models.Credential, error) {
	if id == "" {
		return nil, ErrMissingCredentialID
	}

	content, err := s.engine.GetSecret(id)
	if err != nil {
		return nil, fmt.Errorf("could not resolve credential %q: %w", id, err)
	}

	credential := models.Credential{}
	err = credential.FromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("credential %q is malformed: %w", id, err)
	}
	credential.ID = id

	if credential.Secret == "" {
		return nil, fmt.Errorf("credential %q has an empty secret", id)
	}

	return &credential, nil
}

// GetUsernamePassword resolves a credential and requires it to carry both a username and a password.
func (s *Store) GetUsernamePassword(id string) (*models.Credential, error) {
	credential, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if credential.Kind != models.CredentialKindUsernamePassword || credential.Username == "" {
		return nil, fmt.Errorf("credential %q is %q; need %q: %w",
			id, credential.Kind, models.CredentialKindUsernamePassword, ErrWrongKind)
	}

	return credential, nil
}

func (s *Store) Put(credential *models.Credential, force bool) error {
	if credential.ID == "" {
		return ErrMissingCredentialID
	}

	content, err := credential.ToJSON()
	if err != nil {
		return err
	}

	return s.engine.PutSecret(credential.ID, content, force)
}

// List returns every stored credential id that starts with prefix.
func (s *Store) List(prefix string) ([]string, error) {
	return s.engine.ListSecretKeys(prefix)
}

// Describe returns a credential with its secret removed; used for display.
func (s *Store) Describe(id string) (*models.Credential, error) {
	credential, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	credential.Secret = ""
	return credential, nil
}

func (s *Store) Delete(id string) error {
	if id == "" {
		return ErrMissingCredentialID
	}

	return s.engine.DeleteSecret(id)
}

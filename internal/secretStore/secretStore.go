// Package secretStore defines the interface a credential backend must adhere to. Credentials are referenced by an
// opaque id in step parameters and resolved into their secret value only at call time.
package secretStore

import "errors"

type EngineType string

const (
	// EngineSqlite stores encrypted credentials in a local sqlite database.
	EngineSqlite EngineType = "sqlite"

	// EngineEnv reads credentials the CI system injected as environment variables.
	EngineEnv EngineType = "env"
)

var (
	// ErrEntityNotFound is returned when a certain entity could not be located.
	ErrEntityNotFound = errors.New("secretStore: entity not found")

	// ErrEntityExists is returned when a certain entity was located but not meant to be.
	ErrEntityExists = errors.New("secretStore: entity already exists")

	// ErrReadOnly is returned when a write is attempted against an engine that cannot be written to.
	ErrReadOnly = errors.New("secretStore: engine is read only")

	// ErrInternal is returned when there was an unknown internal error.
	ErrInternal = errors.New("secretStore: internal database error")
)

type Engine interface {
	GetSecret(key string) (string, error)
	ListSecretKeys(prefix string) ([]string, error)

	// PutSecret stores a secret; if force is false and the key already exists ErrEntityExists is returned.
	PutSecret(key string, content string, force bool) error
	DeleteSecret(key string) error
}

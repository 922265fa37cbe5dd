package config

// SqliteSecret
type SqliteSecret struct {
	Path string `koanf:"path"` // file path for database file
	// EncryptionKey is a 32-bit random string of characters used to encrypt data at rest.
	EncryptionKey string `koanf:"encryption_key"`
}

// EnvSecret reads credentials injected by the CI system as environment variables.
type EnvSecret struct {
	// Prefix is prepended to the upper-cased credential id. For a credential "registry" and the default prefix
	// the store reads STEPPER_CREDENTIAL_REGISTRY__USERNAME, STEPPER_CREDENTIAL_REGISTRY__SECRET and
	// STEPPER_CREDENTIAL_REGISTRY__KIND.
	Prefix string `koanf:"prefix"`
}

// SecretStore defines the configuration for stepper's credential backend.
type SecretStore struct {
	// The engine used by the backend.
	// Possible values are: env, sqlite
	Engine string `koanf:"engine"`

	Sqlite SqliteSecret `koanf:"sqlite"`
	Env    EnvSecret    `koanf:"env"`
}

func DefaultSecretStoreConfig() SecretStore {
	return SecretStore{
		Engine: "env",
		Sqlite: SqliteSecret{
			Path:          "/tmp/stepper-secret.db",
			EncryptionKey: defaultEncryptionKey,
		},
		Env: EnvSecret{
			Prefix: "STEPPER_CREDENTIAL_",
		},
	}
}

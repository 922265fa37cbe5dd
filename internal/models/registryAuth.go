package models

import (
	"github.com/docker/docker/api/types/registry"
)

// RegistryAuth is the username/password pair used to talk to an image registry.
type RegistryAuth struct {
	Registry string `json:"registry"`
	User     string `json:"user"`
	Pass     string `json:"-"`
}

func NewRegistryAuth(server string, credential *Credential) *RegistryAuth {
	return &RegistryAuth{
		Registry: server,
		User:     credential.Username,
		Pass:     credential.Secret,
	}
}

func (r *RegistryAuth) ToAuthConfig() registry.AuthConfig {
	return registry.AuthConfig{
		Username:      r.User,
		Password:      r.Pass,
		ServerAddress: r.Registry,
	}
}

// Encode returns the base64url JSON form docker expects in the X-Registry-Auth header.
func (r *RegistryAuth) Encode() (string, error) {
	return registry.EncodeAuthConfig(r.ToAuthConfig())
}

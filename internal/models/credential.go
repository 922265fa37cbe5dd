package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type CredentialKind string

const (
	CredentialKindUnknown          CredentialKind = "unknown"
	CredentialKindUsernamePassword CredentialKind = "username_password"
	CredentialKindSecretText       CredentialKind = "secret_text"
)

// ParseCredentialKind maps a user supplied kind onto a known kind. Jenkins style camel case names are
// accepted so credential ids can be copied over from an existing controller.
func ParseCredentialKind(kind string) (CredentialKind, error) {
	switch kind {
	case string(CredentialKindUsernamePassword), "usernamePassword":
		return CredentialKindUsernamePassword, nil
	case string(CredentialKindSecretText), "string", "secretText":
		return CredentialKindSecretText, nil
	default:
		return CredentialKindUnknown, fmt.Errorf("credential kind %q not recognized; should be one of %q or %q",
			kind, CredentialKindUsernamePassword, CredentialKindSecretText)
	}
}

// Credential is an opaque secret resolved at call time from the credential store.
type Credential struct {
	ID       string         `json:"id"`
	Kind     CredentialKind `json:"kind"`
	Username string         `json:"username,omitempty"`
	Secret   string         `json:"secret"`
	Created  int64          `json:"created"`
}

func NewCredential(id string, kind CredentialKind, username, secret string) *Credential {
	return &Credential{
		ID:       id,
		Kind:     kind,
		Username: username,
		Secret:   secret,
		Created:  time.Now().UnixMilli(),
	}
}

func (c *Credential) ToJSON() (string, error) {
	content, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(content), nil
}

func (c *Credential) FromJSON(content string) error {
	return json.Unmarshal([]byte(content), c)
}

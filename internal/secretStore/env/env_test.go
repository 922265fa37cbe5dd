package env

import (
	"errors"
	"testing"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/secretStore"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const testPrefix = "STEPPERTEST_CREDENTIAL_"

func TestGetSecret(t *testing.T) {
	t.Setenv(testPrefix+"DOCKER_HUB__USERNAME", "deployer")
	t.Setenv(testPrefix+"DOCKER_HUB__SECRET", "hunter2")
	t.Setenv(testPrefix+"SONAR_TOKEN__SECRET", "squ_abc")
	t.Setenv(testPrefix+"CLUSTER__SECRET", "token")
	t.Setenv(testPrefix+"CLUSTER__USERNAME", "admin")
	t.Setenv(testPrefix+"CLUSTER__KIND", "secret_text")

	store, err := New(testPrefix)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]models.Credential{
		"docker-hub": {
			ID:       "docker-hub",
			Kind:     models.CredentialKindUsernamePassword,
			Username: "deployer",
			Secret:   "hunter2",
		},
		"sonar-token": {
			ID:     "sonar-token",
			Kind:   models.CredentialKindSecretText,
			Secret: "squ_abc",
		},
		"cluster": {
			ID:       "cluster",
			Kind:     models.CredentialKindSecretText,
			Username: "admin",
			Secret:   "token",
		},
	}

	for id, want := range tests {
		t.Run(id, func(t *testing.T) {
			content, err := store.GetSecret(id)
			if err != nil {
				t.Fatal(err)
			}

			got := models.Credential{}
			if err := got.FromJSON(content); err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("result is different than expected(-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetSecretMissing(t *testing.T) {
	t.Setenv(testPrefix+"ONLY_USER__USERNAME", "deployer")

	store, err := New(testPrefix)
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.GetSecret("only-user")
	if !errors.Is(err, secretStore.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound; got %v", err)
	}

	_, err = store.GetSecret("does-not-exist")
	if !errors.Is(err, secretStore.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound; got %v", err)
	}
}

func TestListSecretKeys(t *testing.T) {
	t.Setenv(testPrefix+"REGISTRY_PROD__SECRET", "a")
	t.Setenv(testPrefix+"REGISTRY_DEV__SECRET", "b")
	t.Setenv(testPrefix+"SONAR__SECRET", "c")

	store, err := New(testPrefix)
	if err != nil {
		t.Fatal(err)
	}

	keys, err := store.ListSecretKeys("registry")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"registry_dev", "registry_prod"}
	if diff := cmp.Diff(want, keys, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("result is different than expected(-want +got):\n%s", diff)
	}
}

func TestReadOnly(t *testing.T) {
	store, err := New(testPrefix)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.PutSecret("a", "b", true); !errors.Is(err, secretStore.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly; got %v", err)
	}

	if err := store.DeleteSecret("a"); !errors.Is(err, secretStore.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly; got %v", err)
	}
}

func TestVarName(t *testing.T) {
	store := Store{prefix: "STEPPER_CREDENTIAL_"}

	got := store.VarName("docker-hub.prod", "secret")
	if got != "STEPPER_CREDENTIAL_DOCKER_HUB_PROD__SECRET" {
		t.Errorf("unexpected variable name %q", got)
	}
}

func TestGetSecretEquivalentIDs(t *testing.T) {
	t.Setenv(testPrefix+"DOCKER_HUB__SECRET", "hunter2")

	store, err := New(testPrefix)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"docker-hub", "docker_hub", "Docker.Hub"} {
		content, err := store.GetSecret(id)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}

		got := models.Credential{}
		if err := got.FromJSON(content); err != nil {
			t.Fatal(err)
		}

		if got.Secret != "hunter2" {
			t.Errorf("%s: expected secret %q; got %q", id, "hunter2", got.Secret)
		}

		if store.VarName(id, "secret") != testPrefix+"DOCKER_HUB__SECRET" {
			t.Errorf("%s: unexpected variable name %s", id, store.VarName(id, "secret"))
		}
	}
}

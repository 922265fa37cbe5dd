package steps

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/clintjedwards/stepper/internal/manifest"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/google/go-cmp/cmp"
	"k8s.io/client-go/tools/clientcmd"
)

const testDeployment = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: billing
spec:
  template:
    spec:
      containers:
        - name: billing
          image: acme/billing:latest
`

const testService = `apiVersion: v1
kind: Service
metadata:
  name: billing
`

func TestDeploy(t *testing.T) {
	steps, fakeRun, _ := newTestSteps(t, models.BuildContext{Number: 42})
	steps.config.Deploy.ManifestDir = "k8s"
	path := writeWorkspaceFile(t, steps, "k8s/deployment.yaml", testDeployment)

	fakeRun.onRun = func(cmd runner.Command) {
		config, err := clientcmd.LoadFromFile(steps.path(steps.KubeconfigPath()))
		if err != nil {
			t.Errorf("kubeconfig should exist while kubectl runs: %v", err)
			return
		}

		kubeContext := config.Contexts[config.CurrentContext]
		if kubeContext.Namespace != "billing-prod" {
			t.Errorf("expected namespace %q; got %q", "billing-prod", kubeContext.Namespace)
		}

		cluster := config.Clusters[kubeContext.Cluster]
		if cluster.Server != "https://k8s.example.com:6443" {
			t.Errorf("expected server %q; got %q", "https://k8s.example.com:6443", cluster.Server)
		}

		if config.AuthInfos[kubeContext.AuthInfo].Token != "cluster-token" {
			t.Errorf("expected token credential in kubeconfig")
		}
	}

	err := steps.Deploy(context.Background(), "cluster", "https://k8s.example.com:6443", "billing-prod", "acme/billing")
	if err != nil {
		t.Fatal(err)
	}

	want := []runner.Command{{
		Name: "kubectl",
		Args: []string{
			"--kubeconfig", ".stepper/kubeconfig-42", "--namespace", "billing-prod", "apply", "-f", "k8s",
		},
		Dir: steps.Workspace(),
	}}

	if diff := cmp.Diff(want, fakeRun.commands); diff != "" {
		t.Errorf("result is different than expected(-want +got):\n%s", diff)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	wantManifest := `apiVersion: apps/v1
kind: Deployment
metadata:
  name: billing
spec:
  template:
    spec:
      containers:
        - name: billing
          image: acme/billing:42
`

	if diff := cmp.Diff(wantManifest, string(content)); diff != "" {
		t.Errorf("result is different than expected(-want +got):\n%s", diff)
	}

	_, err = os.Stat(steps.path(steps.KubeconfigPath()))
	if !os.IsNotExist(err) {
		t.Errorf("expected kubeconfig to be removed after deploy; got %v", err)
	}
}

func TestDeployNoImageLine(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		steps, fakeRun, _ := newTestSteps(t, models.BuildContext{Number: 42})
		path := writeWorkspaceFile(t, steps, "deployment.yaml", testService)

		err := steps.Deploy(context.Background(), "cluster", "https://k8s.example.com", "billing", "acme/billing")
		if !errors.Is(err, manifest.ErrNoImageReference) {
			t.Errorf("expected ErrNoImageReference; got %v", err)
		}

		if len(fakeRun.commands) != 0 {
			t.Errorf("expected kubectl not to run; got %d commands", len(fakeRun.commands))
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if string(content) != testService {
			t.Errorf("expected manifest to be unchanged")
		}
	})

	t.Run("lenient", func(t *testing.T) {
		steps, fakeRun, _ := newTestSteps(t, models.BuildContext{Number: 42})
		steps.config.Deploy.StrictImageRewrite = false
		path := writeWorkspaceFile(t, steps, "deployment.yaml", testService)

		err := steps.Deploy(context.Background(), "cluster", "https://k8s.example.com", "billing", "acme/billing")
		if err != nil {
			t.Fatal(err)
		}

		if len(fakeRun.commands) != 1 {
			t.Errorf("expected kubectl to run once; got %d commands", len(fakeRun.commands))
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if string(content) != testService {
			t.Errorf("expected manifest to be unchanged")
		}
	})
}

func TestDeployValidatesFirst(t *testing.T) {
	tests := map[string]struct {
		build        models.BuildContext
		credentialID string
		clusterURL   string
		project      string
		imageName    string
		want         error
	}{
		"missing credential": {
			build: models.BuildContext{Number: 1}, clusterURL: "https://k8s", project: "p", imageName: "i",
			want: ErrMissingParameter,
		},
		"missing cluster": {
			build: models.BuildContext{Number: 1}, credentialID: "cluster", project: "p", imageName: "i",
			want: ErrMissingParameter,
		},
		"missing project": {
			build: models.BuildContext{Number: 1}, credentialID: "cluster", clusterURL: "https://k8s", imageName: "i",
			want: ErrMissingParameter,
		},
		"missing image": {
			build: models.BuildContext{Number: 1}, credentialID: "cluster", clusterURL: "https://k8s", project: "p",
			want: ErrMissingParameter,
		},
		"missing build number": {
			credentialID: "cluster", clusterURL: "https://k8s", project: "p", imageName: "i",
			want: ErrMissingBuildNumber,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			steps, fakeRun, _ := newTestSteps(t, tc.build)
			path := writeWorkspaceFile(t, steps, "deployment.yaml", testDeployment)

			err := steps.Deploy(context.Background(), tc.credentialID, tc.clusterURL, tc.project, tc.imageName)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v; got %v", tc.want, err)
			}

			if len(fakeRun.commands) != 0 {
				t.Errorf("expected no commands to run; got %d", len(fakeRun.commands))
			}

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			if string(content) != testDeployment {
				t.Errorf("expected manifest to be unchanged")
			}
		})
	}
}

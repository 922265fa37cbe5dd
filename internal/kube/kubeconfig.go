// Package kube produces the short lived kubeconfig handed to kubectl during a deploy.
package kube

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clintjedwards/stepper/internal/models"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// kubeconfigFileMode is the file mode for kubeconfig files.
const kubeconfigFileMode = 0o600

const (
	clusterName = "target"
	userName    = "stepper"
	contextName = "stepper@target"
)

// ErrUnsupportedCredential is returned when a credential kind cannot be used to authenticate to a cluster.
var ErrUnsupportedCredential = errors.New("kube: credential kind cannot authenticate to a cluster")

// Target is the cluster a deploy applies manifests against.
type Target struct {
	Server                string
	Namespace             string
	InsecureSkipTLSVerify bool
	Credential            *models.Credential
}

// NewConfig builds a kubeconfig with a single context pointing at the target.
func NewConfig(target Target) (*clientcmdapi.Config, error) {
	authInfo := clientcmdapi.NewAuthInfo()

	switch target.Credential.Kind {
	case models.CredentialKindSecretText:
		authInfo.Token = target.Credential.Secret
	case models.CredentialKindUsernamePassword:
		authInfo.Username = target.Credential.Username
		authInfo.Password = target.Credential.Secret
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCredential, target.Credential.Kind)
	}

	cluster := clientcmdapi.NewCluster()
	cluster.Server = target.Server
	cluster.InsecureSkipTLSVerify = target.InsecureSkipTLSVerify

	kubeContext := clientcmdapi.NewContext()
	kubeContext.Cluster = clusterName
	kubeContext.AuthInfo = userName
	kubeContext.Namespace = target.Namespace

	config := clientcmdapi.NewConfig()
	config.Clusters[clusterName] = cluster
	config.AuthInfos[userName] = authInfo
	config.Contexts[contextName] = kubeContext
	config.CurrentContext = contextName

	return config, nil
}

// WriteKubeconfig writes a kubeconfig for the target to path, readable only by the current user.
func WriteKubeconfig(path string, target Target) error {
	config, err := NewConfig(target)
	if err != nil {
		return err
	}

	content, err := clientcmd.Write(*config)
	if err != nil {
		return fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return err
	}

	err = os.WriteFile(path, content, kubeconfigFileMode)
	if err != nil {
		return fmt.Errorf("failed to write kubeconfig: %w", err)
	}

	return nil
}

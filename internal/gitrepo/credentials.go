package gitrepo

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

const (
	defaultCredentialUsernameConstant = "git"
	sshProtocolConstant               = "ssh"
	httpProtocolConstant              = "http"
	httpsProtocolConstant             = "https"
	credentialKindSSHKeyConstant      = "ssh-key"
	credentialKindSSHMemoryConstant   = "ssh-memory"
	credentialKindUsernameConstant    = "username"
	credentialKindPlaintextConstant   = "user-pass-plaintext"
	credentialKindUnknownConstant     = "unknown"
)

// CredentialKind names a credential type a transport may ask for.
type CredentialKind int

// Credential kinds requested by transports.
const (
	CredentialKindSSHKey CredentialKind = iota + 1
	CredentialKindSSHMemory
	CredentialKindUsername
	CredentialKindUserPassPlaintext
)

// String returns a stable label for logging.
func (kind CredentialKind) String() string {
	switch kind {
	case CredentialKindSSHKey:
		return credentialKindSSHKeyConstant
	case CredentialKindSSHMemory:
		return credentialKindSSHMemoryConstant
	case CredentialKindUsername:
		return credentialKindUsernameConstant
	case CredentialKindUserPassPlaintext:
		return credentialKindPlaintextConstant
	default:
		return credentialKindUnknownConstant
	}
}

// CredentialRequest describes what a remote transport asks for.
type CredentialRequest struct {
	URL          string
	Username     string
	AllowedKinds []CredentialKind
}

// Allows reports whether the request admits the provided kind.
func (request CredentialRequest) Allows(kind CredentialKind) bool {
	for _, allowedKind := range request.AllowedKinds {
		if allowedKind == kind {
			return true
		}
	}
	return false
}

// requiresUpfrontCredentials reports whether the transport cannot connect anonymously at all.
func (request CredentialRequest) requiresUpfrontCredentials() bool {
	return request.Allows(CredentialKindSSHKey) || request.Allows(CredentialKindSSHMemory)
}

// CredentialProvider supplies authentication for a remote, or declines with ErrNoCredentials.
type CredentialProvider interface {
	ProvideCredential(request CredentialRequest) (transport.AuthMethod, error)
}

// PublicKeysLoader loads an SSH private key for the given user.
type PublicKeysLoader func(username string, privateKeyPath string, passphrase string) (transport.AuthMethod, error)

// SSHKeyCredentialProvider answers SSH key requests with a passphrase-less private key file
// and username requests with a username-only credential.
type SSHKeyCredentialProvider struct {
	PrivateKeyPath string
	KeyLoader      PublicKeysLoader
}

// NewSSHKeyCredentialProvider constructs a provider for the key at privateKeyPath.
func NewSSHKeyCredentialProvider(privateKeyPath string) *SSHKeyCredentialProvider {
	return &SSHKeyCredentialProvider{PrivateKeyPath: privateKeyPath, KeyLoader: loadPublicKeysFromFile}
}

// ProvideCredential implements CredentialProvider.
func (provider *SSHKeyCredentialProvider) ProvideCredential(request CredentialRequest) (transport.AuthMethod, error) {
	username := strings.TrimSpace(request.Username)
	if len(username) == 0 {
		username = defaultCredentialUsernameConstant
	}

	switch {
	case request.Allows(CredentialKindSSHKey) || request.Allows(CredentialKindSSHMemory):
		keyLoader := provider.KeyLoader
		if keyLoader == nil {
			keyLoader = loadPublicKeysFromFile
		}
		authMethod, loadError := keyLoader(username, provider.PrivateKeyPath, "")
		if loadError != nil {
			return nil, fmt.Errorf(privateKeyLoadErrorTemplateConstant, provider.PrivateKeyPath, loadError)
		}
		return authMethod, nil
	case request.Allows(CredentialKindUsername):
		return &githttp.BasicAuth{Username: username}, nil
	default:
		return nil, ErrNoCredentials
	}
}

// credentialRequestForURL derives the credential kinds a remote url needs. A nil
// request means the transport authenticates without credentials.
func credentialRequestForURL(remoteURL string) (*CredentialRequest, error) {
	endpoint, endpointError := transport.NewEndpoint(remoteURL)
	if endpointError != nil {
		return nil, fmt.Errorf(remoteEndpointParseErrorTemplateConstant, remoteURL, endpointError)
	}

	request := &CredentialRequest{URL: remoteURL, Username: endpoint.User}
	switch endpoint.Protocol {
	case sshProtocolConstant:
		request.AllowedKinds = []CredentialKind{CredentialKindSSHKey, CredentialKindSSHMemory}
	case httpProtocolConstant, httpsProtocolConstant:
		request.AllowedKinds = []CredentialKind{CredentialKindUserPassPlaintext}
	default:
		return nil, nil
	}
	return request, nil
}

func loadPublicKeysFromFile(username string, privateKeyPath string, passphrase string) (transport.AuthMethod, error) {
	return gitssh.NewPublicKeysFromFile(username, privateKeyPath, passphrase)
}

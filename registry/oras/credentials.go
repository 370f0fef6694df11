package oras

import (
	"context"
	"errors"
	"slices"
	"strings"

	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

var errReadOnlyStore = errors.New("oci: static credential store is read-only")

// dockerHubAliases are the addresses Docker Hub credentials may be stored
// under, in lookup order.
var dockerHubAliases = []string{
	"https://index.docker.io/v1/",
	"index.docker.io",
	"registry-1.docker.io",
	"docker.io",
}

// DockerCredentials returns the credential store configured by
// ~/.docker/config.json and its credential helpers.
func DockerCredentials() (credentials.Store, error) {
	store, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		return nil, err
	}
	return &aliasStore{store: store}, nil
}

// StaticCredentials returns a store holding a username and password for a
// single registry.
func StaticCredentials(registry, username, password string) credentials.Store {
	return &staticStore{
		registry: hostport(registry),
		cred:     auth.Credential{Username: username, Password: password},
	}
}

// StaticToken returns a store holding a bearer token for a single registry.
func StaticToken(registry, token string) credentials.Store {
	return &staticStore{
		registry: hostport(registry),
		cred:     auth.Credential{AccessToken: token},
	}
}

type staticStore struct {
	registry string
	cred     auth.Credential
}

func (s *staticStore) Get(_ context.Context, serverAddress string) (auth.Credential, error) {
	server := hostport(serverAddress)
	if server == s.registry || (isDockerHub(server) && isDockerHub(s.registry)) {
		return s.cred, nil
	}
	return auth.EmptyCredential, nil
}

func (s *staticStore) Put(context.Context, string, auth.Credential) error {
	return errReadOnlyStore
}

func (s *staticStore) Delete(context.Context, string) error {
	return errReadOnlyStore
}

// aliasStore retries Docker Hub lookups under every known alias.
type aliasStore struct {
	store credentials.Store
}

func (s *aliasStore) Get(ctx context.Context, serverAddress string) (auth.Credential, error) {
	cred, err := s.store.Get(ctx, serverAddress)
	if err == nil && !isEmptyCredential(cred) {
		return cred, nil
	}
	if isDockerHub(hostport(serverAddress)) {
		for _, alias := range dockerHubAliases {
			if alias == serverAddress {
				continue
			}
			if alt, altErr := s.store.Get(ctx, alias); altErr == nil && !isEmptyCredential(alt) {
				return alt, nil
			}
		}
	}
	return cred, err
}

func (s *aliasStore) Put(ctx context.Context, serverAddress string, cred auth.Credential) error {
	return s.store.Put(ctx, serverAddress, cred)
}

func (s *aliasStore) Delete(ctx context.Context, serverAddress string) error {
	return s.store.Delete(ctx, serverAddress)
}

func isDockerHub(hostport string) bool {
	return slices.Contains([]string{"docker.io", "registry-1.docker.io", "index.docker.io"}, hostname(hostport))
}

// hostname strips the port from host[:port], keeping IPv6 brackets.
func hostname(hostport string) string {
	if strings.HasPrefix(hostport, "[") {
		if i := strings.LastIndex(hostport, "]"); i != -1 {
			return hostport[:i+1]
		}
		return hostport
	}
	if i := strings.LastIndex(hostport, ":"); i != -1 {
		return hostport[:i]
	}
	return hostport
}

// hostport reduces a server address to host[:port].
func hostport(addr string) string {
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr, _, _ = strings.Cut(addr, "/")
	return addr
}

func isEmptyCredential(cred auth.Credential) bool {
	return cred.Username == "" && cred.Password == "" && cred.AccessToken == "" && cred.RefreshToken == ""
}

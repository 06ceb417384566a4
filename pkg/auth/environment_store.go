package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads a token from XWSCRAPER_TOKEN or NYT_COOKIE.
// It is read-only and holds a single account named "env".
type EnvironmentStore struct{}

// EnvAccountName is the name of the account read from the environment
const EnvAccountName = "env"

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func envToken() string {
	if token := os.Getenv("XWSCRAPER_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("NYT_COOKIE")
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment account. Any name other than "" or
// "env" is not found.
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	if name != "" && name != EnvAccountName {
		return nil, ErrCredentialsNotFound
	}
	token, err := NormalizeToken(envToken())
	if err != nil {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Name:         EnvAccountName,
		Token:        token,
		LastModified: time.Now(),
	}, nil
}

// List returns the environment account when a token is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment token is set
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}

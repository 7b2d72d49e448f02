package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sanskaar/booking/internal/domain"

	"github.com/spf13/viper"
)

type fileTokens struct {
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// fileTokenStore keeps tokens in a YAML file, one entry under "profiles" per
// profile. Profile names are case-insensitive and must not contain dots.
type fileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore stores tokens in the YAML file at path, creating it and
// its directory on the first save.
func NewFileTokenStore(path string) TokenStore {
	return &fileTokenStore{path: path}
}

func (s *fileTokenStore) Load(_ context.Context, profile string) (domain.Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return domain.Tokens{}, err
	}

	tokens, ok := profiles[strings.ToLower(profile)]
	if !ok || tokens.AccessToken == "" {
		return domain.Tokens{}, fmt.Errorf("tokens for profile %s: %w", profile, domain.ErrNotFound)
	}

	return domain.Tokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *fileTokenStore) Save(_ context.Context, profile string, tokens domain.Tokens) error {
	if strings.Contains(profile, ".") {
		return fmt.Errorf("invalid profile name %q: must not contain '.'", profile)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return err
	}

	profiles[strings.ToLower(profile)] = fileTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	return s.write(profiles)
}

func (s *fileTokenStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return err
	}

	key := strings.ToLower(profile)
	if _, ok := profiles[key]; !ok {
		return nil
	}
	delete(profiles, key)
	return s.write(profiles)
}

func (s *fileTokenStore) read() (map[string]fileTokens, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]fileTokens), nil
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", s.path, err)
	}

	var file struct {
		Profiles map[string]fileTokens `mapstructure:"profiles"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", s.path, err)
	}
	if file.Profiles == nil {
		file.Profiles = make(map[string]fileTokens)
	}
	return file.Profiles, nil
}

func (s *fileTokenStore) write(profiles map[string]fileTokens) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)
	for name, tokens := range profiles {
		v.Set("profiles."+name+".access_token", tokens.AccessToken)
		v.Set("profiles."+name+".refresh_token", tokens.RefreshToken)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", s.path, err)
	}
	return nil
}

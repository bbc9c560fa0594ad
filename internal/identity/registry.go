// Package identity provides the registry of named git identities. The
// registry is the system of record feeding Identity values into the signing
// readiness core; the core never mutates it.
package identity

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gitid/internal/config"
	"github.com/mrz1836/gitid/internal/domain"
	"github.com/mrz1836/gitid/internal/errors"
)

// Registry holds the configured identities, keyed by unique name.
type Registry struct {
	path       string
	identities map[string]domain.Identity
}

// NewRegistry builds a Registry from loaded configuration. path is the
// config file identities are saved back to; it may be empty for a
// read-only registry.
func NewRegistry(cfg *config.Config, path string) (*Registry, error) {
	if cfg == nil {
		return nil, errors.ErrConfigNil
	}

	ids := make(map[string]domain.Identity, len(cfg.Identities))
	for name, entry := range cfg.Identities {
		id, err := fromEntry(name, entry)
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}

	return &Registry{path: path, identities: ids}, nil
}

// Get returns the identity with the given name.
func (r *Registry) Get(name string) (domain.Identity, error) {
	id, ok := r.identities[name]
	if !ok {
		return domain.Identity{}, errors.Wrapf(errors.ErrIdentityNotFound, "identity %q", name)
	}
	return id, nil
}

// List returns all identities sorted by name.
func (r *Registry) List() []domain.Identity {
	names := make([]string, 0, len(r.identities))
	for name := range r.identities {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make([]domain.Identity, 0, len(names))
	for _, name := range names {
		ids = append(ids, r.identities[name])
	}
	return ids
}

// Add registers a new identity. Names are unique.
func (r *Registry) Add(id domain.Identity) error {
	if id.Name == "" {
		return errors.Wrap(errors.ErrEmptyValue, "identity name")
	}
	if _, exists := r.identities[id.Name]; exists {
		return errors.Wrapf(errors.ErrIdentityExists, "identity %q", id.Name)
	}
	r.identities[id.Name] = id
	return nil
}

// Remove deletes an identity by name.
func (r *Registry) Remove(name string) error {
	if _, ok := r.identities[name]; !ok {
		return errors.Wrapf(errors.ErrIdentityNotFound, "identity %q", name)
	}
	delete(r.identities, name)
	return nil
}

// Save writes the identities back to the registry's config file. The write
// goes through a temp file and rename so a crash never truncates the
// existing config.
func (r *Registry) Save() error {
	if r.path == "" {
		return errors.Wrap(errors.ErrEmptyValue, "registry path")
	}

	entries := make(map[string]config.IdentityEntry, len(r.identities))
	for name, id := range r.identities {
		entries[name] = toEntry(id)
	}

	doc := struct {
		Identities map[string]config.IdentityEntry `yaml:"identities"`
	}{Identities: entries}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal identities")
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "failed to replace config")
	}
	return nil
}

// fromEntry converts an on-disk entry into a domain identity.
func fromEntry(name string, entry config.IdentityEntry) (domain.Identity, error) {
	provider := domain.ProviderOther
	if entry.Provider != "" {
		parsed, err := domain.ParseProvider(entry.Provider)
		if err != nil {
			return domain.Identity{}, err
		}
		provider = parsed
	}

	return domain.Identity{
		Name:     name,
		Provider: provider,
		Host:     entry.Host,
		Hostname: entry.Hostname,
		User:     entry.User,
		Email:    entry.Email,
		Signing: domain.SigningConfig{
			KeyID:       entry.Signing.KeyID,
			Format:      domain.SigningFormat(entry.Signing.Format),
			SSHKeyPath:  entry.Signing.SSHKeyPath,
			SignCommits: entry.Signing.SignCommits,
			SignTags:    entry.Signing.SignTags,
			AutoSignoff: entry.Signing.AutoSignoff,
			HardwareKey: entry.Signing.HardwareKey,
			TouchPolicy: entry.Signing.TouchPolicy,
		},
	}, nil
}

// toEntry converts a domain identity into its on-disk form.
func toEntry(id domain.Identity) config.IdentityEntry {
	return config.IdentityEntry{
		Provider: id.Provider.String(),
		Host:     id.Host,
		Hostname: id.Hostname,
		User:     id.User,
		Email:    id.Email,
		Signing: config.SigningEntry{
			KeyID:       id.Signing.KeyID,
			Format:      string(id.Signing.Format),
			SSHKeyPath:  id.Signing.SSHKeyPath,
			SignCommits: id.Signing.SignCommits,
			SignTags:    id.Signing.SignTags,
			AutoSignoff: id.Signing.AutoSignoff,
			HardwareKey: id.Signing.HardwareKey,
			TouchPolicy: id.Signing.TouchPolicy,
		},
	}
}

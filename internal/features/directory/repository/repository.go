package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"payments-chat-backend/internal/features/directory/models"
)

// Directory is the read-only local user directory consulted before the
// remote user search.
type Directory interface {
	FindByHandle(handle string) (*models.Entry, bool)
	FindByID(id string) (*models.Entry, bool)
	// FindByContact matches email, phone, tax id and payment key, in that order.
	FindByContact(identifier string) (*models.Entry, bool)
	All() []models.Entry
}

type staticDirectory struct {
	users []models.Entry
}

func New(users []models.Entry) Directory {
	copied := make([]models.Entry, len(users))
	copy(copied, users)
	return &staticDirectory{users: copied}
}

// Load reads a directory file once. YAML is chosen by the .yaml/.yml
// extension, anything else is parsed as JSON.
func Load(path string) (Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}

	var file models.File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse directory %s: %w", path, err)
	}

	return New(file.Users), nil
}

func (d *staticDirectory) FindByHandle(handle string) (*models.Entry, bool) {
	norm := strings.ToLower(strings.TrimSpace(handle))
	if norm == "" {
		return nil, false
	}
	for i := range d.users {
		if strings.ToLower(strings.TrimSpace(d.users[i].Handle)) == norm {
			return &d.users[i], true
		}
	}
	return nil, false
}

func (d *staticDirectory) FindByID(id string) (*models.Entry, bool) {
	if id == "" {
		return nil, false
	}
	for i := range d.users {
		if d.users[i].ID == id {
			return &d.users[i], true
		}
	}
	return nil, false
}

func (d *staticDirectory) FindByContact(identifier string) (*models.Entry, bool) {
	raw := strings.TrimSpace(identifier)
	if raw == "" {
		return nil, false
	}
	norm := strings.ToLower(raw)
	digits := digitsOnly(identifier)

	for i := range d.users {
		u := &d.users[i]
		switch {
		case u.Email != "" && strings.ToLower(strings.TrimSpace(u.Email)) == norm:
			return u, true
		case u.Phone != "" && strings.TrimSpace(u.Phone) == raw:
			return u, true
		case u.CPF != "" && digits != "" && digitsOnly(u.CPF) == digits:
			return u, true
		case u.Pix != "" && strings.ToLower(strings.TrimSpace(u.Pix)) == norm:
			return u, true
		}
	}
	return nil, false
}

func (d *staticDirectory) All() []models.Entry {
	out := make([]models.Entry, len(d.users))
	copy(out, d.users)
	return out
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

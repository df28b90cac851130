package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-chat-backend/internal/features/directory/models"
)

func testDirectory() Directory {
	return New([]models.Entry{
		{ID: "2955", Handle: "Maria", Email: "Maria@Example.com", Phone: "+5511999990001", CPF: "123.456.789-09", Pix: "maria@pix"},
		{ID: "77", Handle: "2955"},
		{ID: "3101", Handle: "joao", CPF: "987.654.321-00"},
	})
}

func TestFindByHandle_CaseInsensitiveAndTrimmed(t *testing.T) {
	d := testDirectory()

	u, ok := d.FindByHandle("  MARIA ")
	require.True(t, ok)
	assert.Equal(t, "2955", u.ID)

	_, ok = d.FindByHandle("")
	assert.False(t, ok)
}

func TestFindByID_Exact(t *testing.T) {
	d := testDirectory()

	u, ok := d.FindByID("3101")
	require.True(t, ok)
	assert.Equal(t, "joao", u.Handle)

	_, ok = d.FindByID(" 3101")
	assert.False(t, ok)
}

func TestFindByContact(t *testing.T) {
	d := testDirectory()

	tests := []struct {
		name       string
		identifier string
		wantID     string
	}{
		{"email ignores case", "maria@example.COM", "2955"},
		{"phone exact", "+5511999990001", "2955"},
		{"cpf ignores punctuation", "98765432100", "3101"},
		{"cpf formatted", "123.456.789-09", "2955"},
		{"pix key", "MARIA@PIX", "2955"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := d.FindByContact(tt.identifier)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, u.ID)
		})
	}

	_, ok := d.FindByContact("nobody")
	assert.False(t, ok, "identifier without digits must not match empty tax ids")
}

func TestLoad_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"users":[{"id":"1","handle":"ana"}]}`), 0o600))
	d, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Len(t, d.All(), 1)

	yamlPath := filepath.Join(dir, "users.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("users:\n  - id: \"2\"\n    handle: bia\n    email: bia@example.com\n"), 0o600))
	d, err = Load(yamlPath)
	require.NoError(t, err)
	u, ok := d.FindByContact("bia@example.com")
	require.True(t, ok)
	assert.Equal(t, "2", u.ID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/blog-platform/internal/domain"
)

func TestCanCreate(t *testing.T) {
	tests := []struct {
		role domain.Role
		want bool
	}{
		{domain.RoleAdmin, true},
		{domain.RoleEditor, true},
		{domain.RoleWriter, true},
		{domain.RoleReader, false},
		{domain.Role("Superuser"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, CanCreate(tt.role))
		})
	}
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		name     string
		role     domain.Role
		caller   string
		author   string
		want     bool
	}{
		{"admin edits anything", domain.RoleAdmin, "u1", "u2", true},
		{"editor edits anything", domain.RoleEditor, "u1", "u2", true},
		{"writer edits own", domain.RoleWriter, "u1", "u1", true},
		{"writer cannot edit others", domain.RoleWriter, "u1", "u2", false},
		{"writer with unknown owner", domain.RoleWriter, "u1", "", false},
		{"reader never edits", domain.RoleReader, "u1", "u1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident := &Identity{SubjectID: tt.caller, Role: tt.role}
			assert.Equal(t, tt.want, CanEdit(ident, tt.author))
		})
	}
}

func TestCanDelete(t *testing.T) {
	assert.True(t, CanDelete(domain.RoleAdmin))
	assert.False(t, CanDelete(domain.RoleEditor))
	assert.False(t, CanDelete(domain.RoleWriter))
	assert.False(t, CanDelete(domain.RoleReader))
}

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleEditor))
	assert.True(t, domain.RoleEditor.AtLeast(domain.RoleWriter))
	assert.True(t, domain.RoleWriter.AtLeast(domain.RoleReader))
	assert.False(t, domain.RoleReader.AtLeast(domain.RoleWriter))
}

func TestParseRole(t *testing.T) {
	role, err := domain.ParseRole("Editor")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, role)

	// display labels are never role names
	_, err = domain.ParseRole("editor")
	assert.Error(t, err)
	_, err = domain.ParseRole("Éditeur")
	assert.Error(t, err)
}

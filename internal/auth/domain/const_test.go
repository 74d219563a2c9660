package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Allows(t *testing.T) {
	assert.True(t, RoleAdmin.Allows(RoleAdmin))
	assert.True(t, RoleAdmin.Allows(RoleStorefront))
	assert.True(t, RoleStorefront.Allows(RoleStorefront))
	assert.False(t, RoleStorefront.Allows(RoleAdmin))
	assert.False(t, Role("").Allows(RoleStorefront))
}

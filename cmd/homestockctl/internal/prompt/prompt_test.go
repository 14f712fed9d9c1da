package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFill_SuppliedValuesSkipPrompt(t *testing.T) {
	email, password := "a@b.com", "secret"
	require.NoError(t, Fill(true,
		Field{Title: "Email", Value: &email, Required: true},
		Field{Title: "Password", Value: &password, Secret: true, Required: true},
	))
	assert.Equal(t, "a@b.com", email)
}

func TestFill_NonInteractiveMissingRequired(t *testing.T) {
	var email string
	err := Fill(true, Field{Title: "Email", Value: &email, Required: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonInteractive))
}

func TestFill_NonInteractiveMissingOptional(t *testing.T) {
	var name string
	assert.NoError(t, Fill(true, Field{Title: "Name", Value: &name}))
}

func TestConfirm_NonInteractiveUsesDefault(t *testing.T) {
	ok, err := Confirm(true, "Delete?", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/linegroup/authcore/internal/config"
	"github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/infrastructure/directory"
)

func seededDirectory(t *testing.T) *directory.StaticDirectory {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return directory.NewStaticDirectory([]config.UserConfig{
		{Subject: "42", Username: "Alice", PasswordHash: string(hash), Roles: []string{"ADMIN"}},
		{Subject: "43", Username: "mallory", PasswordHash: string(hash), Disabled: true},
	})
}

func TestStaticDirectory_FindBySubject(t *testing.T) {
	d := seededDirectory(t)

	user, err := d.FindBySubject(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
	assert.Equal(t, []string{"ADMIN"}, user.Roles)

	_, err = d.FindBySubject(context.Background(), "99")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestStaticDirectory_VerifyCredentials(t *testing.T) {
	d := seededDirectory(t)

	subject, err := d.VerifyCredentials(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "42", subject)

	// Username lookup is case-insensitive.
	subject, err = d.VerifyCredentials(context.Background(), "ALICE", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestStaticDirectory_VerifyCredentialsUniformFailure(t *testing.T) {
	d := seededDirectory(t)

	_, wrongPassword := d.VerifyCredentials(context.Background(), "alice", "wrong")
	_, unknownUser := d.VerifyCredentials(context.Background(), "nobody", "s3cret")

	assert.ErrorIs(t, wrongPassword, service.ErrBadCredentials)
	assert.ErrorIs(t, unknownUser, service.ErrBadCredentials)
	// The two failures are indistinguishable.
	assert.Equal(t, wrongPassword, unknownUser)
}

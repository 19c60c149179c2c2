// Package directory is a configuration-seeded user directory. It stands in
// for the directory the surrounding system owns; deployments embed this
// service and supply their own UserDirectory and CredentialVerifier.
package directory

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/linegroup/authcore/internal/config"
	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/internal/domain/service"
)

// StaticDirectory serves user records seeded from configuration. It
// implements both UserDirectory and CredentialVerifier.
type StaticDirectory struct {
	bySubject  map[string]*models.UserRecord
	byUsername map[string]*models.UserRecord
	hashes     map[string]string
}

// NewStaticDirectory indexes the seeded accounts.
func NewStaticDirectory(users []config.UserConfig) *StaticDirectory {
	d := &StaticDirectory{
		bySubject:  make(map[string]*models.UserRecord, len(users)),
		byUsername: make(map[string]*models.UserRecord, len(users)),
		hashes:     make(map[string]string, len(users)),
	}
	for _, u := range users {
		record := &models.UserRecord{
			Subject:  u.Subject,
			Username: u.Username,
			Roles:    append([]string(nil), u.Roles...),
			Disabled: u.Disabled,
		}
		d.bySubject[u.Subject] = record
		d.byUsername[strings.ToLower(u.Username)] = record
		d.hashes[u.Subject] = u.PasswordHash
	}
	return d
}

// FindBySubject returns the record for the subject or ErrUserNotFound.
func (d *StaticDirectory) FindBySubject(_ context.Context, subject string) (*models.UserRecord, error) {
	record, ok := d.bySubject[subject]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return record, nil
}

// VerifyCredentials checks the password against the stored bcrypt hash. An
// unknown username and a wrong password are indistinguishable to the caller.
func (d *StaticDirectory) VerifyCredentials(_ context.Context, username, password string) (string, error) {
	record, ok := d.byUsername[strings.ToLower(username)]
	if !ok {
		// Burn a comparison anyway so unknown users cost the same.
		_ = bcrypt.CompareHashAndPassword([]byte(burnHash), []byte(password))
		return "", service.ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.hashes[record.Subject]), []byte(password)); err != nil {
		return "", service.ErrBadCredentials
	}
	return record.Subject, nil
}

// burnHash is a fixed bcrypt hash of a random string, used to equalize
// timing for unknown usernames.
const burnHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

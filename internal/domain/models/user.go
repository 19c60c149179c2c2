package models

// UserRecord is the shape the core needs from the externally owned user
// store. It is consumed by the login and refresh flows only; the core never
// persists users itself.
type UserRecord struct {
	// Subject is the principal identifier, typically a numeric id as text.
	Subject string

	// Username is the login name, used for audit events only.
	Username string

	// Roles are the role names granted to the user.
	Roles []string

	// Disabled marks an account that must not authenticate.
	Disabled bool
}

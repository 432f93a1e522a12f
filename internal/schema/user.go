package schema

// User is a stored account. The password is only ever kept as a bcrypt hash.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
}

type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	// bcrypt ignores input past 72 bytes.
	Password string `json:"password" validate:"required,min=8,max=72"`
}

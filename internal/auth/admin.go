package auth

import "crypto/subtle"

// Admin is the single admin identity of the deployment. There is no
// user table: both values come from the environment and are compared
// verbatim on login.
type Admin struct {
	Email    string
	Password string
}

// CredentialsMatch reports whether the given pair equals the configured
// pair. Both comparisons always run, and in constant time, so the check
// leaks neither which field mismatched nor how much of it matched.
func (a Admin) CredentialsMatch(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(a.Email), []byte(email))
	passwordOK := subtle.ConstantTimeCompare([]byte(a.Password), []byte(password))
	return emailOK&passwordOK == 1
}

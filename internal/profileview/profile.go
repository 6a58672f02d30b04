package profileview

import "errors"

// ErrProfileNotFound is returned by clients when the API answers with an
// empty body.
var ErrProfileNotFound = errors.New("User profile not found")

// Profile is the record the view renders. Every field is whatever the server
// sent; nothing is validated on this side.
type Profile struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}

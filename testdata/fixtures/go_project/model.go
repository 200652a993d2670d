package project

// User is a stored account.
type User struct {
	ID    int
	Name  string
	Email string
}

// Repository stores users.
type Repository interface {
	FindByID(id int) (*User, error)
	Save(user *User) error
}

const maxNameLen = 64

func newUser(name, email string) *User {
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return &User{Name: name, Email: email}
}

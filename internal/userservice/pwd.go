package userservice

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a login names an unknown user, so that
// both failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), passwordCost)
	if err != nil {
		panic(err)
	}
	return hash
})

func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), passwordCost)
	if err != nil {
		return err
	}

	p.Plain = pwd
	p.hash = hash

	return nil
}

func (p *Password) compare(pwd string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

package userservice

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

// bcryptInput reduces passwords bcrypt would reject to a fixed size digest.
func bcryptInput(pwd string) []byte {
	if len(pwd) <= bcryptMaxBytes {
		return []byte(pwd)
	}

	sum := sha256.Sum256([]byte(pwd))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.Plain = pwd
	p.hash = hash

	return nil
}

func (p *Password) compare(pwd string) (bool, error) {
	if len(p.hash) == 0 {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword(p.hash, bcryptInput(pwd))
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

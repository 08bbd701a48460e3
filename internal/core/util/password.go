package util

import "golang.org/x/crypto/bcrypt"

const DefaultPasswordCost = 12

func GenerateEncrypt(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}

	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), cost)

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

func ComparePassword(password, encrypted string) error {
	return bcrypt.CompareHashAndPassword([]byte(encrypted), []byte(password))
}

// SaltFromHash returns the salt segment embedded in a bcrypt hash
// ("$2a$12$" followed by 22 salt characters).
func SaltFromHash(encrypted string) string {
	const prefix, saltLength = 7, 22

	if len(encrypted) < prefix+saltLength {
		return ""
	}

	return encrypted[prefix : prefix+saltLength]
}

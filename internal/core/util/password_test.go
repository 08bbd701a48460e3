package util

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateEncrypt(t *testing.T) {
	RegisterTestingT(t)

	hash, err := GenerateEncrypt("secret1", bcrypt.MinCost)

	Expect(err).To(BeNil())
	Expect(hash).ToNot(Equal("secret1"))
	Expect(ComparePassword("secret1", hash)).To(Succeed())
	Expect(ComparePassword("secret2", hash)).ToNot(Succeed())
}

func TestGenerateEncrypt_SaltsEveryCall(t *testing.T) {
	RegisterTestingT(t)

	first, _ := GenerateEncrypt("secret1", bcrypt.MinCost)
	second, _ := GenerateEncrypt("secret1", bcrypt.MinCost)

	Expect(first).ToNot(Equal(second))
	Expect(SaltFromHash(first)).ToNot(Equal(SaltFromHash(second)))
}

func TestSaltFromHash(t *testing.T) {
	RegisterTestingT(t)

	hash, _ := GenerateEncrypt("secret1", bcrypt.MinCost)
	salt := SaltFromHash(hash)

	Expect(salt).To(HaveLen(22))
	Expect(strings.Contains(hash, salt)).To(BeTrue())
	Expect(SaltFromHash("short")).To(BeEmpty())
}

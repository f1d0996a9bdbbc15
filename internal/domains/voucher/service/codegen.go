package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	"pointhub-backend/internal/domains/voucher/model"
)

// CodeGenerator produces candidate voucher codes. Uniqueness is enforced by
// the store, not by the generator.
type CodeGenerator interface {
	Generate() (string, error)
}

type randomCodeGenerator struct{}

func NewRandomCodeGenerator() CodeGenerator {
	return randomCodeGenerator{}
}

func (randomCodeGenerator) Generate() (string, error) {
	var b strings.Builder
	b.Grow(len(model.CodePrefix) + model.CodeLength)
	b.WriteString(model.CodePrefix)

	alphabet := big.NewInt(int64(len(model.CodeAlphabet)))
	for i := 0; i < model.CodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", err
		}
		b.WriteByte(model.CodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// CodeGeneratorFunc adapts a plain function, mostly for deterministic tests.
type CodeGeneratorFunc func() (string, error)

func (f CodeGeneratorFunc) Generate() (string, error) {
	return f()
}

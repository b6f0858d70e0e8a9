package ibanledger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hryvna/ibanledger"
)

func TestIbanGenerate(t *testing.T) {
	gen := ibanledger.NewIbanGenerator()

	t.Run("generated IBANs validate for every registered country", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		for _, country := range []string{"UA", "DE", "GB", "NL", "PL"} {
			for i := 0; i < 10; i++ {
				iban, err := gen.Generate(country)
				reqrd.Nil(err)
				as.True(strings.HasPrefix(iban, country))
				as.Nil(gen.Validate(iban), "generated %s", iban)
			}
		}
	})

	t.Run("UA IBANs are 29 characters", func(tt *testing.T) {
		as := assert.New(tt)
		iban, err := gen.Generate("UA")
		as.Nil(err)
		as.Len(iban, 29)
	})

	t.Run("unknown country is rejected", func(tt *testing.T) {
		as := assert.New(tt)
		_, err := gen.Generate("XX")
		as.NotNil(err)
	})
}

func TestIbanValidate(t *testing.T) {
	gen := ibanledger.NewIbanGenerator()

	t.Run("accepts well-known valid IBANs", func(tt *testing.T) {
		as := assert.New(tt)
		for _, iban := range []string{
			"GB82WEST12345698765432",
			"DE89370400440532013000",
			"NL91ABNA0417164300",
		} {
			as.Nil(gen.Validate(iban), iban)
		}
	})

	t.Run("accepts lowercase input", func(tt *testing.T) {
		as := assert.New(tt)
		as.Nil(gen.Validate("gb82west12345698765432"))
	})

	t.Run("rejects a flipped check digit", func(tt *testing.T) {
		as := assert.New(tt)
		as.NotNil(gen.Validate("GB83WEST12345698765432"))
	})

	t.Run("rejects wrong length for a known country", func(tt *testing.T) {
		as := assert.New(tt)
		as.NotNil(gen.Validate("DE893704004405320130"))
	})

	t.Run("rejects garbage", func(tt *testing.T) {
		as := assert.New(tt)
		as.NotNil(gen.Validate("short"))
		as.NotNil(gen.Validate("GB82WEST1234569876543!"))
		as.NotNil(gen.Validate("12AB000000000000000000"))
	})
}

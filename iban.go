package ibanledger

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

//go:generate mockgen -destination=mocks/iban.go -package=mocks . IbanGenerator

// IbanGenerator produces syntactically valid IBANs and checks candidate
// strings for structural validity. It knows nothing about whether an IBAN
// exists; existence is the Repository's concern.
type IbanGenerator interface {
	Generate(country string) (string, error)
	Validate(iban string) error
}

const (
	digitChars = "0123456789"
	alnumChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type bbanPart struct {
	length  int
	charset string
}

type ibanSpec struct {
	length int
	bban   []bbanPart
}

// Structure per the SWIFT IBAN registry for the countries the service may
// be configured to issue in.
var ibanRegistry = map[string]ibanSpec{
	"UA": {29, []bbanPart{{6, digitChars}, {19, alnumChars}}},
	"DE": {22, []bbanPart{{18, digitChars}}},
	"GB": {22, []bbanPart{{4, alnumChars}, {14, digitChars}}},
	"NL": {18, []bbanPart{{4, alnumChars}, {10, digitChars}}},
	"PL": {28, []bbanPart{{24, digitChars}}},
}

type registryIbanGenerator struct{}

var (
	_ IbanGenerator = (*registryIbanGenerator)(nil)
)

func NewIbanGenerator() *registryIbanGenerator {
	return &registryIbanGenerator{}
}

func (g *registryIbanGenerator) Generate(country string) (string, error) {
	country = strings.ToUpper(country)
	spec, ok := ibanRegistry[country]
	if !ok {
		return "", fmt.Errorf("unknown IBAN country code %q", country)
	}

	var sb strings.Builder
	for _, p := range spec.bban {
		for i := 0; i < p.length; i++ {
			sb.WriteByte(p.charset[rand.IntN(len(p.charset))])
		}
	}
	bban := sb.String()

	// Check digits make the rearranged string ≡ 1 (mod 97).
	rem := mod97(bban + country + "00")
	check := 98 - rem

	return fmt.Sprintf("%s%02d%s", country, check, bban), nil
}

func (g *registryIbanGenerator) Validate(iban string) error {
	if l := len(iban); l < 10 || l > 34 {
		return fmt.Errorf("IBAN must be between 10 and 34 characters, got %d", l)
	}
	up := strings.ToUpper(iban)
	country := up[:2]
	for _, c := range country {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("IBAN %s has an invalid country code", iban)
		}
	}
	for _, c := range up[2:] {
		if !strings.ContainsRune(alnumChars, c) {
			return fmt.Errorf("IBAN %s contains invalid characters", iban)
		}
	}
	if spec, ok := ibanRegistry[country]; ok && len(up) != spec.length {
		return fmt.Errorf("IBAN for country %s must be %d characters, got %d",
			country, spec.length, len(up))
	}
	if mod97(up[4:]+up[:4]) != 1 {
		return fmt.Errorf("IBAN %s has an invalid checksum", iban)
	}
	return nil
}

// mod97 computes the ISO 7064 remainder of the string with letters expanded
// to their two-digit values (A=10 .. Z=35).
func mod97(s string) int {
	rem := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			rem = (rem*100 + v) % 97
		}
	}
	return rem
}

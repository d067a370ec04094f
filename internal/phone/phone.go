// Package phone canonicalizes contact identifiers so that every store keyed by
// contact number agrees on conversation identity. The messaging provider and
// manually entered numbers arrive with inconsistent punctuation and
// country-code presence; all writes use the canonical form and reads fall back
// through historical variants.
package phone

// DefaultCountryCode is the country code assumed when a number carries none.
const DefaultCountryCode = "55"

type Normalizer struct {
	countryCode string
}

func NewNormalizer(countryCode string) *Normalizer {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return &Normalizer{countryCode: countryCode}
}

// Normalize strips every non-digit character and prefixes the country code
// when absent. The result is the canonical store key.
func (n *Normalizer) Normalize(raw string) string {
	return n.WithCountryCode(Digits(raw))
}

// Digits strips everything except decimal digits.
func Digits(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			out = append(out, raw[i])
		}
	}
	return string(out)
}

func (n *Normalizer) WithCountryCode(digits string) string {
	if digits == "" || n.hasCountryCode(digits) {
		return digits
	}
	return n.countryCode + digits
}

func (n *Normalizer) WithoutCountryCode(digits string) string {
	if n.hasCountryCode(digits) {
		return digits[len(n.countryCode):]
	}
	return digits
}

// hasCountryCode guesses presence by prefix and length. National numbers are
// 10-11 digits; with the country code they are 12-13.
func (n *Normalizer) hasCountryCode(digits string) bool {
	if len(digits) <= len(n.countryCode) {
		return false
	}
	return len(digits) >= 12 && digits[:len(n.countryCode)] == n.countryCode
}

// LookupKeys returns candidate keys in lookup order: canonical first, then the
// country-code variants, then the raw digits. Stores try these in order when
// reading records written before normalization was enforced; new writes use
// only the first entry.
func (n *Normalizer) LookupKeys(raw string) []string {
	digits := Digits(raw)
	keys := []string{n.Normalize(raw)}
	for _, candidate := range []string{n.WithCountryCode(digits), n.WithoutCountryCode(digits), digits} {
		if candidate == "" {
			continue
		}
		duplicate := false
		for _, key := range keys {
			if key == candidate {
				duplicate = true
				break
			}
		}
		if !duplicate {
			keys = append(keys, candidate)
		}
	}
	return keys
}

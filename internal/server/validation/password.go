package validation

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cryptown/internal/common"
)

var (
	ErrPasswordTooWeak = fmt.Errorf("%w: password is too weak", common.ErrorValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password is too long", common.ErrorValidation)
)

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

const symbols = "-#!$@£%^&*()_+|~=`{}[]:\";'<>?,./\\ "

// PasswordPolicy describes what a strong password is. It is a plain value
// so every check receives its policy explicitly.
//
// With ReturnScore false a password is strong when it meets all the minimum
// counts. With ReturnScore true it is strong when Score is above MinScore.
// MaxBytes caps the encoded length in either mode.
type PasswordPolicy struct {
	MinLength    int `mapstructure:"min_length"`
	MaxBytes     int `mapstructure:"max_bytes"`
	MinLowercase int `mapstructure:"min_lowercase"`
	MinUppercase int `mapstructure:"min_uppercase"`
	MinNumbers   int `mapstructure:"min_numbers"`
	MinSymbols   int `mapstructure:"min_symbols"`

	ReturnScore bool    `mapstructure:"return_score"`
	MinScore    float64 `mapstructure:"min_score"`

	PointsPerUnique           float64 `mapstructure:"points_per_unique"`
	PointsPerRepeat           float64 `mapstructure:"points_per_repeat"`
	PointsForContainingLower  float64 `mapstructure:"points_for_containing_lower"`
	PointsForContainingUpper  float64 `mapstructure:"points_for_containing_upper"`
	PointsForContainingNumber float64 `mapstructure:"points_for_containing_number"`
	PointsForContainingSymbol float64 `mapstructure:"points_for_containing_symbol"`
}

// DefaultPasswordPolicy: at least 8 characters with one lowercase, one
// uppercase, one digit and one symbol, no more than 72 bytes. Scoring is
// off; when enabled only a zero score is rejected.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:                 8,
		MaxBytes:                  MaxPasswordBytes,
		MinLowercase:              1,
		MinUppercase:              1,
		MinNumbers:                1,
		MinSymbols:                1,
		ReturnScore:               false,
		MinScore:                  0,
		PointsPerUnique:           1,
		PointsPerRepeat:           0.5,
		PointsForContainingLower:  10,
		PointsForContainingUpper:  10,
		PointsForContainingNumber: 10,
		PointsForContainingSymbol: 10,
	}
}

type passwordAnalysis struct {
	length    int
	unique    int
	lowercase int
	uppercase int
	numbers   int
	symbols   int
}

func analyze(p string) passwordAnalysis {
	a := passwordAnalysis{}
	seen := make(map[rune]struct{})

	for _, r := range p {
		a.length++
		seen[r] = struct{}{}

		switch {
		case r >= 'a' && r <= 'z':
			a.lowercase++
		case r >= 'A' && r <= 'Z':
			a.uppercase++
		case r >= '0' && r <= '9':
			a.numbers++
		case strings.ContainsRune(symbols, r):
			a.symbols++
		}
	}
	a.unique = len(seen)

	return a
}

// Score rates p: points for every unique and repeated character plus a
// bonus for each character class present.
func (pp PasswordPolicy) Score(p string) float64 {
	a := analyze(p)

	points := float64(a.unique)*pp.PointsPerUnique + float64(a.length-a.unique)*pp.PointsPerRepeat
	if a.lowercase > 0 {
		points += pp.PointsForContainingLower
	}
	if a.uppercase > 0 {
		points += pp.PointsForContainingUpper
	}
	if a.numbers > 0 {
		points += pp.PointsForContainingNumber
	}
	if a.symbols > 0 {
		points += pp.PointsForContainingSymbol
	}

	return points
}

func (pp PasswordPolicy) IsStrong(p string) bool {
	if pp.ReturnScore {
		return pp.Score(p) > pp.MinScore
	}

	a := analyze(p)
	return a.length >= pp.MinLength &&
		a.lowercase >= pp.MinLowercase &&
		a.uppercase >= pp.MinUppercase &&
		a.numbers >= pp.MinNumbers &&
		a.symbols >= pp.MinSymbols
}

// Password returns ErrPasswordTooLong or ErrPasswordTooWeak unless p
// satisfies the policy.
func Password(p string, policy PasswordPolicy) error {
	if policy.MaxBytes > 0 && len([]byte(p)) > policy.MaxBytes {
		return ErrPasswordTooLong
	}
	if !policy.IsStrong(p) {
		return ErrPasswordTooWeak
	}
	return nil
}

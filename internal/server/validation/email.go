// Package validation contains the input checks run before any store access:
// email syntax and character set, password strength and HTML escaping.
package validation

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/cryptown/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	ErrEmailEmpty       = fmt.Errorf("%w: no email address provided", common.ErrorValidation)
	ErrEmailInvalid     = fmt.Errorf("%w: email is not valid", common.ErrorValidation)
	ErrEmailBannedChars = fmt.Errorf("%w: please do not include special characters", common.ErrorValidation)
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Anything besides word characters, '@' and '.' is rejected.
	bannedEmailChars = regexp.MustCompile(`[^\w\d@.]`)
)

// Email checks the address syntax and the allowed character set. Used at
// signup.
func Email(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if err := validate.Var(e, "email"); err != nil {
		return ErrEmailInvalid
	}

	return EmailCharset(e)
}

// EmailCharset only checks the allowed character set. Login uses it on its
// own so that malformed input never reaches the store.
func EmailCharset(e string) error {
	if bannedEmailChars.MatchString(e) {
		return ErrEmailBannedChars
	}
	return nil
}

package services

import (
	"fmt"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const maxProfileFieldLen = 200

// RegisterInput is the payload accepted by AuthService.Register.
type RegisterInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	Name       string `json:"name" form:"name"`
	Occupation string `json:"occupation" form:"occupation"`
}

// Validate checks the payload. Failures wrap common.ErrorValidation.
func (r RegisterInput) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, maxProfileFieldLen)),
		validation.Field(&r.Occupation, validation.Required, validation.RuneLength(1, maxProfileFieldLen)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

// LoginInput is the payload accepted by AuthService.Login. It is not
// validated: any malformed credential simply fails to authenticate.
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// validateUserInfo checks profile fields for an update.
func validateUserInfo(info models.UserInfo) error {
	err := validation.ValidateStruct(&info,
		validation.Field(&info.Name, validation.Required, validation.RuneLength(1, maxProfileFieldLen)),
		validation.Field(&info.Occupation, validation.Required, validation.RuneLength(1, maxProfileFieldLen)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

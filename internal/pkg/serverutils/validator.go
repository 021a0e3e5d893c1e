package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"rag-chat-be/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds the failures into a
// single ValidationError so the error middleware maps it to a 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if ok := errors.As(err, &errs); ok {
			messages := make([]string, len(errs))
			for i, fe := range errs {
				messages[i] = fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag())
			}
			return apperrors.NewValidationError("%s", strings.Join(messages, "; "))
		}
		return apperrors.NewValidationError("%s", err.Error())
	}
	return nil
}

package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// terraAddressRegex matches a bech32 account or contract address on Terra.
var terraAddressRegex = regexp.MustCompile(`^terra1[02-9ac-hj-np-z]{38}([02-9ac-hj-np-z]{20})?$`)

func NewValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("terra_address", terraAddressValidation)
	_ = validate.RegisterValidation("positive_amount", positiveAmountValidation)
	validate.RegisterAlias("not_empty", "required")
	return validate
}

// IsTerraAddress reports whether addr looks like a Terra bech32 address.
func IsTerraAddress(addr string) bool {
	return terraAddressRegex.MatchString(addr)
}

func terraAddressValidation(fl validator.FieldLevel) bool {
	return IsTerraAddress(fl.Field().String())
}

func positiveAmountValidation(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return amount.IsPositive()
}

func ParseValidationError(errors validator.ValidationErrors) map[string]interface{} {
	fieldErrors := make(map[string]interface{})
	for _, err := range errors {
		fieldErrors[getFieldName(err)] = msgForFieldError(err)
	}
	return fieldErrors
}

// msgForFieldError gets the message for the given validation error (tag).
func msgForFieldError(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "not_empty":
		return "This field cannot be empty"
	case "terra_address":
		return "Invalid terra address provided"
	case "positive_amount":
		return "Should be a positive decimal amount"
	case "oneof":
		params := strings.Join(strings.Split(fieldError.Param(), " "), ", ")
		return fmt.Sprintf("Unexpected value %q. Expected one of the following values: %s", fieldError.Value(), params)
	case "gt":
		if fieldError.Kind() == reflect.Slice || fieldError.Kind() == reflect.Array {
			return "Should have at least 1 element"
		}
		return fmt.Sprintf("Should be greater than %s", fieldError.Param())
	case "gte":
		return fmt.Sprintf("Should be greater than or equal %s", fieldError.Param())
	case "lte":
		return fmt.Sprintf("Should be less than or equal %s", fieldError.Param())
	case "uuid":
		return "Invalid identifier provided"
	default:
		return "Invalid value"
	}
}

func getFieldName(fieldError validator.FieldError) string {
	// Ex.: structName.FieldName, structName.nestedStructName.nestedStructFieldName
	namespace := strings.Split(fieldError.StructNamespace(), ".")
	length := len(namespace)
	if length == 2 {
		return lcFirst(namespace[1])
	}

	if length > 2 {
		return fmt.Sprintf("%s.%s", lcFirst(namespace[length-2]), lcFirst(namespace[length-1]))
	}

	return lcFirst(namespace[0])
}

// lcFirst lowers the case of the first letter of the given string, or of the whole string when it is
// an acronym.
//
//	Example: Address -> address, ID -> id
func lcFirst(str string) string {
	if str != "" && strings.ToUpper(str) == str {
		return strings.ToLower(str)
	}
	for index, letter := range str {
		return string(unicode.ToLower(letter)) + str[index+1:]
	}
	return ""
}

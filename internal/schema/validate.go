package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError names an input field and why it was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Result is the outcome of validating an input shape.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

var validate = newValidator()

// Prices are plain decimal text: no sign, exponent or surrounding space.
var (
	priceFormat   = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	priceCeiling  = decimal.NewFromInt(1_000_000_000)
	priceMaxScale = int32(3)
)

// validPrice accepts amounts below priceCeiling with at most priceMaxScale
// decimal places.
func validPrice(s string) bool {
	if !priceFormat.MatchString(s) {
		return false
	}
	d, err := decimal.NewFromString(s)
	return err == nil && d.LessThan(priceCeiling) && -d.Exponent() <= priceMaxScale
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsKnownCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return validPrice(fl.Field().String())
	})

	return v
}

func ValidateNewProduct(np NewProduct) Result {
	return check(np)
}

func ValidateProductPatch(pp ProductPatch) Result {
	if pp.IsEmpty() {
		return Result{Errors: []FieldError{{Field: "", Reason: "no fields to update"}}}
	}
	return check(pp)
}

func ValidateNewUser(nu NewUser) Result {
	return check(nu)
}

func check(v any) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{Valid: true}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []FieldError{{Reason: err.Error()}}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Reason: reason(fe)})
	}
	return Result{Errors: out}
}

// fieldPath drops the struct name prefix: "NewProduct.imageUrls[0]" -> "imageUrls[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "category":
		return "must be one of " + strings.Join(Categories, ", ")
	case "price":
		return fmt.Sprintf("must be a plain decimal amount below %s with at most %d decimal places", priceCeiling, priceMaxScale)
	default:
		return "failed " + fe.Tag()
	}
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody reads a JSON body into dst and validates it. An empty body decodes
// as {} so optional-only payloads can be omitted.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid JSON: " + err.Error())
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{Path: issuePath(fe.Namespace()), Message: issueMessage(fe)})
	}
	return invalid(issues)
}

func invalid(issues []Issue) error {
	return &httpError{status: http.StatusBadRequest, message: "Validation failed", details: issues}
}

// issuePath turns "bulkSetsRequest.sets[0].exercise_id" into "sets.0.exercise_id".
func issuePath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be at least " + fe.Param()
	case "lte":
		return "Must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s item(s)", fe.Param())
		}
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "datetime":
		return "Expected date " + fe.Param()
	}
	return "Invalid value (" + fe.Tag() + ")"
}

// looseNumber accepts a JSON number, a numeric string, null or a blank string.
// Blank and null both decode to no value.
type looseNumber struct {
	value *float64
	raw   string
	bad   bool
}

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	*n = looseNumber{}
	if string(b) == "null" {
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	} else {
		s = string(b)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		n.raw, n.bad = s, true
		return nil
	}
	n.value = &f
	return nil
}

// intValue returns the number as an int, or an issue when it is not a whole number.
func (n looseNumber) intValue(path string) (*int, *Issue) {
	if n.bad {
		return nil, &Issue{Path: path, Message: "Expected number, received " + strconv.Quote(n.raw)}
	}
	if n.value == nil {
		return nil, nil
	}
	if math.Abs(*n.value) > math.MaxInt32 {
		return nil, &Issue{Path: path, Message: "Number must be less than or equal to 2147483647"}
	}
	if *n.value != math.Trunc(*n.value) {
		return nil, &Issue{Path: path, Message: "Expected integer, received float"}
	}
	v := int(*n.value)
	return &v, nil
}

func (n looseNumber) floatValue(path string) (*float64, *Issue) {
	if n.bad {
		return nil, &Issue{Path: path, Message: "Expected number, received " + strconv.Quote(n.raw)}
	}
	return n.value, nil
}

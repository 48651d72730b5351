package validator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/feral-file/slp-indexer/internal/domain"
)

const (
	MAX_NAME_LENGTH     = 24
	MAX_NOTES_LENGTH    = 128
	MAX_DOCURI_LENGTH   = 128
	MAX_METADATA_LENGTH = 255
)

// DocumentURISchemes lists the accepted document URI schemes
var DocumentURISchemes = []string{"ipfs://", "ipns://", "ar://", "https://"}

// rules maps each field code to its validation tags
var rules = map[string]string{
	"tp": "required",
	"id": fmt.Sprintf("len=%d,hexadecimal", domain.TOKEN_ID_LENGTH),
	"sy": "min=3,max=8,alphanum",
	"na": fmt.Sprintf("min=3,max=%d", MAX_NAME_LENGTH),
	"de": fmt.Sprintf("min=0,max=%d", domain.MAX_DECIMALS),
	"qt": "slpquantity",
	"du": fmt.Sprintf("max=%d,docuri", MAX_DOCURI_LENGTH),
	"no": fmt.Sprintf("max=%d", MAX_NOTES_LENGTH),
	"pa": "slpflag",
	"mi": "slpflag",
	"ch": "min=1,max=255",
	"dt": fmt.Sprintf("dive,keys,min=1,max=%d,endkeys,max=%d", MAX_METADATA_LENGTH, MAX_METADATA_LENGTH),
	"tx": "len=64,hexadecimal",
}

// integerFields are coerced to int before their rule runs
var integerFields = map[string]bool{"de": true, "ch": true}

var validate = newValidate()

func newValidate() *playground.Validate {
	v := playground.New()
	_ = v.RegisterValidation("docuri", validateDocumentURI)
	_ = v.RegisterValidation("slpflag", validateFlag)
	_ = v.RegisterValidation("slpquantity", validateQuantity)
	return v
}

// Validate checks every present field against its rule and never mutates the input
func Validate(fields map[string]any) error {
	codes := make([]string, 0, len(fields))
	for code := range fields {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		rule, ok := rules[code]
		if !ok {
			continue
		}

		value := fields[code]
		if integerFields[code] {
			n, err := cast.ToIntE(normalizeNumber(value))
			if err != nil {
				return fmt.Errorf("%w: field %s is not an integer", domain.ErrValidation, code)
			}
			value = n
		}
		if code == "dt" {
			m, err := cast.ToStringMapStringE(value)
			if err != nil {
				return fmt.Errorf("%w: field dt is not a key/value mapping", domain.ErrValidation)
			}
			value = m
		}

		if err := validate.Var(value, rule); err != nil {
			return fmt.Errorf("%w: field %s: %v", domain.ErrValidation, code, err)
		}
	}

	return nil
}

func normalizeNumber(v any) any {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return v
}

// validateDocumentURI accepts an empty URI or one using an allowed scheme
func validateDocumentURI(fl playground.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	for _, scheme := range DocumentURISchemes {
		if strings.HasPrefix(s, scheme) && len(s) > len(scheme) {
			return true
		}
	}
	return false
}

// validateFlag restricts boolean-coded flags to true, false, 0 and 1
func validateFlag(fl playground.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case bool:
		return true
	case json.Number:
		return v == "0" || v == "1"
	case string:
		return v == "true" || v == "false" || v == "0" || v == "1"
	case float64:
		return v == 0 || v == 1
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n := cast.ToInt64(v)
		return n == 0 || n == 1
	}
	return false
}

// validateQuantity accepts a non-negative decimal number
func validateQuantity(fl playground.FieldLevel) bool {
	var s string
	switch v := fl.Field().Interface().(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		return v >= 0
	case int, int64, uint64:
		return cast.ToFloat64(v) >= 0
	default:
		return false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return d.Sign() >= 0
}

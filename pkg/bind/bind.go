// Package bind decodes submitted HTML forms into tagged structs and runs
// validation on the result.
package bind

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/validate"
)

// ErrTooLarge is returned when the body exceeds MAX_BODY_BYTES.
var ErrTooLarge = errors.New("bind: request body too large")

// MaxBodyBytes is the largest form body accepted, from MAX_BODY_BYTES.
func MaxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Form parses r's form (urlencoded or multipart) into dest, trimming every
// value, then validates dest. A value that cannot be converted to its field
// type is reported as a *validate.Error using that field's messages.
func Form(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes())

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(MaxBodyBytes())
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrTooLarge
		}
		return fmt.Errorf("bind: parse form: %w", err)
	}

	if err := Values(r.Form.Get, dest); err != nil {
		return err
	}
	return validate.Struct(dest)
}

// Values fills dest from a lookup function. It does not validate.
func Values(lookup func(string) string, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: dest must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()

	for i := 0; i < rv.NumField(); i++ {
		sf := rv.Type().Field(i)
		name := sf.Tag.Get("form")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw := strings.TrimSpace(lookup(name))
		if err := set(rv.Field(i), sf, raw); err != nil {
			return err
		}
	}
	return nil
}

func set(fv reflect.Value, sf reflect.StructField, raw string) error {
	if fv.Type() == decimalType {
		if raw == "" {
			fv.Set(reflect.ValueOf(decimal.Zero))
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return reject(sf, "numeric")
		}
		fv.Set(reflect.ValueOf(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		fv.SetBool(raw != "" && raw != "0" && strings.ToLower(raw) != "false" && strings.ToLower(raw) != "off")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			fv.SetInt(0)
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || fv.OverflowInt(n) {
			return reject(sf, "integer")
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			fv.SetUint(0)
			return nil
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || fv.OverflowUint(n) {
			return reject(sf, "integer")
		}
		fv.SetUint(n)
	default:
		return fmt.Errorf("bind: unsupported field type %s for %s", fv.Type(), sf.Name)
	}
	return nil
}

func reject(sf reflect.StructField, rule string) error {
	return &validate.Error{Field: validate.FieldName(sf), Rule: rule, Reason: validate.Message(sf, rule)}
}

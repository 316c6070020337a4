// Package validate checks tagged structs and reports the first failing rule.
//
// Rules are listed comma-separated in the `validate` tag:
//
//	required          value must not be empty (run for every field before any other rule)
//	nullable          skip remaining rules when the value is empty
//	email             plausible email address
//	url               absolute http or https URL
//	href              absolute http(s) URL or a site-relative path
//	numeric           parses as a number
//	integer           parses as a whole number
//	alpha_dash        letters, digits, dashes and underscores only
//	min=N / max=N     string: rune length | number: value
//	gt=N gte=N lt=N lte=N
//	between=a,b       inclusive range (length for strings)
//	in=a,b,c          one of the listed values
//	same=field        equal to the sibling field with that form name
//
// Messages default to a generic sentence. A `msg` tag overrides them per rule,
// with `*` as the catch-all for the field:
//
//	Quantity int `form:"quantity" validate:"between=1,10" msg:"*=Quantity must be between 1 and 10"`
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Error is a single validation failure. Its message is safe to show to users.
type Error struct {
	Field  string
	Rule   string
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// New builds an Error for ad-hoc checks done outside struct tags.
func New(field, reason string) *Error {
	return &Error{Field: field, Rule: "custom", Reason: reason}
}

// As reports whether err is (or wraps) a validation Error.
func As(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type check func(v reflect.Value, param string, parent reflect.Value) bool

var checks map[string]check

func init() {
	checks = map[string]check{
		"required": func(v reflect.Value, _ string, _ reflect.Value) bool { return !isEmpty(v) },
		"nullable": func(reflect.Value, string, reflect.Value) bool { return true },
		"email":    func(v reflect.Value, _ string, _ reflect.Value) bool { return emailRE.MatchString(text(v)) },
		"url":      func(v reflect.Value, _ string, _ reflect.Value) bool { return isHTTPURL(text(v)) },
		"href": func(v reflect.Value, _ string, _ reflect.Value) bool {
			return isHTTPURL(text(v)) || isSitePath(text(v))
		},
		"numeric":    func(v reflect.Value, _ string, _ reflect.Value) bool { _, ok := number(v); return ok },
		"integer":    func(v reflect.Value, _ string, _ reflect.Value) bool { return isInteger(v) },
		"alpha_dash": func(v reflect.Value, _ string, _ reflect.Value) bool { return isAlphaDash(text(v)) },
		"min":        func(v reflect.Value, p string, _ reflect.Value) bool { return measure(v) >= param(p) },
		"max":        func(v reflect.Value, p string, _ reflect.Value) bool { return measure(v) <= param(p) },
		"gt":         func(v reflect.Value, p string, _ reflect.Value) bool { n, ok := number(v); return ok && n > param(p) },
		"gte":        func(v reflect.Value, p string, _ reflect.Value) bool { n, ok := number(v); return ok && n >= param(p) },
		"lt":         func(v reflect.Value, p string, _ reflect.Value) bool { n, ok := number(v); return ok && n < param(p) },
		"lte":        func(v reflect.Value, p string, _ reflect.Value) bool { n, ok := number(v); return ok && n <= param(p) },
		"decimals":   decimals,
		"between":    between,
		"in":         oneOf,
		"same":       same,
	}
}

var defaults = map[string]string{
	"required":   "The %s field is required.",
	"email":      "The %s must be a valid email address.",
	"url":        "The %s must be a valid URL.",
	"href":       "The %s must be a URL or a site path.",
	"numeric":    "The %s field must be a number.",
	"integer":    "The %s field must be an integer.",
	"alpha_dash": "The %s may only contain letters, numbers, dashes and underscores.",
	"min":        "The %s is too short or too small.",
	"max":        "The %s is too long or too large.",
	"gt":         "The %s is too small.",
	"gte":        "The %s is too small.",
	"lt":         "The %s is too large.",
	"lte":        "The %s is too large.",
	"decimals":   "The %s has too many decimal places.",
	"between":    "The %s is out of range.",
	"in":         "The selected %s is invalid.",
	"same":       "The %s does not match.",
}

type field struct {
	meta  reflect.StructField
	value reflect.Value
	name  string
	rules []string
}

// Struct validates v (a struct or pointer to one) and returns the first
// failure, or nil. All `required` rules are evaluated first so that a missing
// field is always reported ahead of a malformed one.
func Struct(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var fields []field
	for i := 0; i < rv.NumField(); i++ {
		sf := rv.Type().Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() {
			continue
		}
		fields = append(fields, field{meta: sf, value: rv.Field(i), name: FieldName(sf), rules: splitRules(tag)})
	}

	for _, f := range fields {
		if hasRule(f.rules, "required") && isEmpty(f.value) {
			return fail(f, "required")
		}
	}

	for _, f := range fields {
		if hasRule(f.rules, "nullable") && isEmpty(f.value) {
			continue
		}
		for _, r := range f.rules {
			key, p, _ := strings.Cut(r, "=")
			if key == "required" || key == "nullable" {
				continue
			}
			fn, ok := checks[key]
			if !ok {
				panic(fmt.Sprintf("validate: unknown rule %q on %s", key, f.meta.Name))
			}
			if !fn(f.value, p, rv) {
				return fail(f, key)
			}
		}
	}
	return nil
}

func fail(f field, rule string) *Error {
	return &Error{Field: f.name, Rule: rule, Reason: Message(f.meta, rule)}
}

// Message resolves the user-facing message for rule on sf.
func Message(sf reflect.StructField, rule string) string {
	overrides := parseMessages(sf.Tag.Get("msg"))
	if m, ok := overrides[rule]; ok {
		return m
	}
	if m, ok := overrides["*"]; ok {
		return m
	}
	tmpl, ok := defaults[rule]
	if !ok {
		tmpl = "The %s field is invalid."
	}
	return fmt.Sprintf(tmpl, strings.ReplaceAll(FieldName(sf), "_", " "))
}

func parseMessages(tag string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		if k, v, ok := strings.Cut(part, "="); ok {
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return out
}

// FieldName is the form name of sf, falling back to json then the lowercased Go name.
func FieldName(sf reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(sf.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(sf.Name)
}

// splitRules splits on commas, folding list parameters (in=a,b and
// between=1,10) back into their rule.
func splitRules(tag string) []string {
	var rules []string
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		key, _, _ := strings.Cut(tok, "=")
		if _, known := checks[key]; known || len(rules) == 0 {
			rules = append(rules, tok)
			continue
		}
		rules[len(rules)-1] += "," + tok
	}
	return rules
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}

var (
	emailRE   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	decimalTy = reflect.TypeOf(decimal.Decimal{})
)

func isEmpty(v reflect.Value) bool {
	if v.Type() == decimalTy {
		return v.Interface().(decimal.Decimal).IsZero()
	}
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func text(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

// number returns the numeric value of v. Strings are parsed.
func number(v reflect.Value) (float64, bool) {
	if v.Type() == decimalTy {
		return v.Interface().(decimal.Decimal).InexactFloat64(), true
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil
	}
	return 0, false
}

func isInteger(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.String:
		_, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		return err == nil
	}
	if v.Type() == decimalTy {
		return v.Interface().(decimal.Decimal).IsInteger()
	}
	return false
}

// measure is rune length for strings and the value for numbers.
func measure(v reflect.Value) float64 {
	if v.Kind() == reflect.String {
		return float64(len([]rune(strings.TrimSpace(v.String()))))
	}
	n, _ := number(v)
	return n
}

func param(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		panic(fmt.Sprintf("validate: bad numeric parameter %q", s))
	}
	return f
}

// decimals holds when v has at most p digits after the point, ignoring
// trailing zeros.
func decimals(v reflect.Value, p string, _ reflect.Value) bool {
	var d decimal.Decimal
	if v.Type() == decimalTy {
		d = v.Interface().(decimal.Decimal)
	} else {
		var err error
		if d, err = decimal.NewFromString(strings.TrimSpace(text(v))); err != nil {
			return false
		}
	}
	return d.Equal(d.Truncate(int32(param(p))))
}

func between(v reflect.Value, p string, _ reflect.Value) bool {
	lo, hi, ok := strings.Cut(p, ",")
	if !ok {
		panic(fmt.Sprintf("validate: between needs two bounds, got %q", p))
	}
	m := measure(v)
	if v.Kind() != reflect.String {
		if _, isNum := number(v); !isNum {
			return false
		}
	}
	return m >= param(lo) && m <= param(hi)
}

func oneOf(v reflect.Value, p string, _ reflect.Value) bool {
	got := text(v)
	for _, opt := range strings.Split(p, ",") {
		if got == strings.TrimSpace(opt) {
			return true
		}
	}
	return false
}

func same(v reflect.Value, p string, parent reflect.Value) bool {
	for i := 0; i < parent.NumField(); i++ {
		if FieldName(parent.Type().Field(i)) == p {
			return text(parent.Field(i)) == text(v)
		}
	}
	return false
}

func isHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isSitePath accepts paths such as images/KOT.jpg or /storage/menu/a.png.
func isSitePath(s string) bool {
	if s == "" || strings.HasPrefix(s, "//") || strings.Contains(s, "..") || strings.ContainsAny(s, " \t\r\n\\") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme == "" && u.Host == ""
}

func isAlphaDash(s string) bool {
	for _, c := range s {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

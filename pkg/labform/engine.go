package labform

import (
	"fmt"
	"strings"

	"partnerlab-agent-be/internal/pkg/logger"
)

const conditionalClusterRequirements = "cluster_requirements is required when virtualization is true"

// Result is the outcome of validating one field value. Only the Engine can
// attach a write token; a Result built elsewhere never yields one.
type Result struct {
	Field   Field  `json:"field"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`

	token Validated
}

// Err returns nil for a passing result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &ValidationError{Field: r.Field, Message: r.Message}
}

// Validated returns the write token of a passing result from ValidateField.
func (r Result) Validated() (Validated, bool) {
	if !r.OK || r.token.IsZero() || r.token.field != r.Field {
		return Validated{}, false
	}
	return r.token, true
}

func passed(field Field, value any) Result {
	return Result{
		Field: field,
		OK:    true,
		token: Validated{field: field, value: value, set: true},
	}
}

// Validated is a field value that has passed ValidateField. It can only be
// produced by the Engine, which keeps unchecked values out of a FormState.
type Validated struct {
	field Field
	value any
	set   bool
}

func (v Validated) Field() Field { return v.field }
func (v Validated) Value() any   { return v.value }
func (v Validated) IsZero() bool { return !v.set }

// Report is the whole-form verdict. Missing and Invalid name the offending
// fields, Errors holds the user-facing messages in check order.
type Report struct {
	OK      bool     `json:"ok"`
	Errors  []string `json:"errors"`
	Missing []Field  `json:"missing_fields"`
	Invalid []Field  `json:"invalid_fields"`
}

// Err returns a *FormError when the report is not OK.
func (r Report) Err() error {
	if r.OK {
		return nil
	}
	return &FormError{Errors: r.Errors, Missing: r.Missing, Invalid: r.Invalid}
}

// Engine dispatches field values to the predicate registered for their kind.
type Engine struct {
	logger    logger.ILogger
	minLength int

	// check is swapped in tests to exercise panic recovery.
	check func(spec FieldSpec, value any) (string, bool)
}

type Option func(*Engine)

func WithLogger(l logger.ILogger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMinLength sets the minimum trimmed length for required strings.
func WithMinLength(n int) Option {
	return func(e *Engine) {
		e.minLength = n
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:    logger.NewNopLogger(),
		minLength: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.check = e.checkKind
	return e
}

// ValidateField checks a single value. Unknown fields pass through unchecked.
// A panicking predicate yields a failed result instead of propagating.
func (e *Engine) ValidateField(field Field, value any) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("LABFORM", "Validation error", map[string]interface{}{
				"field": field.String(),
				"error": fmt.Sprint(r),
			})
			res = Result{Field: field, Message: fmt.Sprintf("Validation error: %v", r)}
		}
	}()

	spec, known := Lookup(field)
	if !known {
		return passed(field, value)
	}

	if msg, ok := e.check(spec, value); !ok {
		return Result{Field: field, Message: msg}
	}
	return passed(field, value)
}

func (e *Engine) checkKind(spec FieldSpec, value any) (string, bool) {
	switch spec.Kind {
	case KindEmail:
		if !spec.Required && value == nil {
			return "", true
		}
		if !IsEmail(value) {
			return fmt.Sprintf("Invalid email format for %s", spec.Name), false
		}
	case KindVersion:
		if !IsOpenShiftVersion(value) {
			return "OpenShift version must be in format 4.y or 4.y.z", false
		}
	case KindTimezone:
		if !IsTimezone(value) {
			return "Invalid timezone. Must be a valid IANA timezone", false
		}
	case KindChoice:
		if !IsOneOf(value, spec.Allowed) {
			return fmt.Sprintf("%s must be one of: %s", spec.Label, strings.Join(spec.Allowed, ", ")), false
		}
	case KindDate:
		if !IsISODate(value) {
			return fmt.Sprintf("Invalid date format for %s", spec.Name), false
		}
	case KindBoolean:
		if !IsBoolean(value) {
			return "Virtualization must be a boolean value", false
		}
	case KindRequiredString:
		if !IsRequiredString(value, e.minLength) {
			return fmt.Sprintf("%s is required and cannot be empty", spec.Name), false
		}
	case KindOptionalString:
		if !IsOptionalString(value) {
			return fmt.Sprintf("%s must be a string or null", spec.Name), false
		}
	}
	return "", true
}

// ValidateForm runs, in order: the required-field check, per-field
// validation of every present value, and the virtualization rule.
func (e *Engine) ValidateForm(form FormState) Report {
	report := Report{
		Errors:  []string{},
		Missing: []Field{},
		Invalid: []Field{},
	}

	for _, f := range requiredFields {
		if v, ok := form.Get(f); !ok || isBlank(v) {
			report.Errors = append(report.Errors, fmt.Sprintf("Required field '%s' is missing", f))
			report.Missing = append(report.Missing, f)
		}
	}

	for _, f := range form.Fields() {
		v, _ := form.Get(f)
		if res := e.ValidateField(f, v); !res.OK {
			report.Errors = append(report.Errors, res.Message)
			report.Invalid = append(report.Invalid, f)
		}
	}

	if v, _ := form.Get(FieldVirtualization); v == true {
		if req, _ := form.Get(FieldClusterRequirements); isBlank(req) {
			report.Errors = append(report.Errors, conditionalClusterRequirements)
			report.Missing = append(report.Missing, FieldClusterRequirements)
		}
	}

	report.OK = len(report.Errors) == 0
	return report
}

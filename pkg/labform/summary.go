package labform

import (
	"fmt"
	"strings"
)

// Summary renders the form as the markdown digest shown to the user before
// confirmation, ending with the completeness verdict from report.
func Summary(form FormState, report Report) string {
	var b strings.Builder
	b.WriteString("📋 **Form Data Summary**\n\n")
	for _, spec := range formFields {
		v, ok := form.Get(spec.Name)
		fmt.Fprintf(&b, "**%s:** %s\n", spec.Label, displayValue(v, ok, spec.Required))
	}

	if report.OK {
		b.WriteString("\n✅ **Form is complete and ready for submission!**")
		return b.String()
	}

	names := make([]string, 0, len(report.Missing)+len(report.Invalid))
	for _, f := range report.Missing {
		names = append(names, string(f))
	}
	for _, f := range report.Invalid {
		names = append(names, string(f)+" (invalid)")
	}
	fmt.Fprintf(&b, "\n❌ **Form is incomplete. Missing: %s**", strings.Join(names, ", "))
	return b.String()
}

func displayValue(v any, ok, required bool) string {
	if !ok || v == nil {
		if required {
			return "Not provided"
		}
		return "None"
	}
	switch t := v.(type) {
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

package job

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/sheetscript/internal/source"
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// identifierPattern accepts plain and dotted (schema.table) identifiers.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)*$`)

// ValidIdentifier reports whether s is safe to splice into a script as a
// table, collection or field name.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ValidationError lists every problem found in a set of jobs.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

type problems []string

func (p *problems) add(prefix, format string, args ...any) {
	*p = append(*p, prefix+fmt.Sprintf(format, args...))
}

// Validate checks jobs against the dialect registry, the profiles and, in
// strict mode, the identifier pattern. It reports all problems at once.
func Validate(jobs []Job, profiles map[string]Profile, strict bool) error {
	var errs problems
	seen := make(map[string]bool, len(jobs))

	for i, j := range jobs {
		prefix := fmt.Sprintf("jobs[%d]: ", i)
		if j.Name == "" {
			errs.add(prefix, "name is required")
		} else {
			prefix = fmt.Sprintf("job %q: ", j.Name)
			if seen[j.Name] {
				errs.add(prefix, "duplicate job name")
			}
			seen[j.Name] = true
		}
		validateJob(&errs, prefix, j, profiles, strict)
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

// ValidateJob validates a single job.
func ValidateJob(j Job, profiles map[string]Profile, strict bool) error {
	var errs problems
	validateJob(&errs, "", j, profiles, strict)
	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

func validateJob(errs *problems, prefix string, j Job, profiles map[string]Profile, strict bool) {
	if j.Source == "" {
		errs.add(prefix, "source is required")
	} else if _, err := source.DetectFormat(j.Source); err != nil {
		errs.add(prefix, "%v", err)
	}
	if !source.ValidEncoding(j.Encoding) {
		errs.add(prefix, "unknown encoding %q", j.Encoding)
	}
	if _, err := source.ParseDelimiter(j.Delimiter); err != nil {
		errs.add(prefix, "%v", err)
	}

	if _, err := dialect.Lookup(j.Dialect); err != nil {
		errs.add(prefix, "%v", err)
	}
	kind, kindErr := j.Kind()
	if kindErr != nil {
		errs.add(prefix, "%v", kindErr)
	}
	if j.Target == "" {
		errs.add(prefix, "target is required")
	}
	if j.Profile != "" {
		if _, ok := profiles[j.Profile]; !ok {
			errs.add(prefix, "unknown profile %q", j.Profile)
		}
	}

	if len(j.Mappings) == 0 {
		errs.add(prefix, "at least one mapping is required")
	}
	provided := make(map[string]bool, len(j.Mappings))
	for _, key := range sortedKeys(j.Mappings) {
		m := j.Mappings[key]
		provided[m.DBField(key)] = true
		switch {
		case m.Column == "" && m.Index == nil:
			errs.add(prefix, "mapping %q: set column or index", key)
		case m.Column != "" && m.Index != nil:
			errs.add(prefix, "mapping %q: column and index are mutually exclusive", key)
		case m.Column != "" && !j.Header:
			errs.add(prefix, "mapping %q: column requires header: true", key)
		case m.Index != nil && *m.Index < 0:
			errs.add(prefix, "mapping %q: index must not be negative", key)
		}
		if strict && !ValidIdentifier(m.DBField(key)) {
			errs.add(prefix, "mapping %q: invalid field name %q", key, m.DBField(key))
		}
	}

	if kindErr == nil && kind.NeedsCondition() {
		switch {
		case j.Condition == "":
			errs.add(prefix, "condition is required for %s", kind)
		case !provided[j.Condition]:
			errs.add(prefix, "condition %q is not provided by any mapping", j.Condition)
		}
	}
	if kindErr == nil && kind == script.KindUpdate {
		if len(j.Fields) == 0 {
			errs.add(prefix, "fields is required for update")
		}
		for _, f := range j.Fields {
			if !provided[f] {
				errs.add(prefix, "update field %q is not provided by any mapping", f)
			}
		}
	}

	if strict {
		if j.Target != "" && !ValidIdentifier(j.Target) {
			errs.add(prefix, "invalid target name %q", j.Target)
		}
		if j.Condition != "" && !ValidIdentifier(j.Condition) {
			errs.add(prefix, "invalid condition name %q", j.Condition)
		}
	}
}

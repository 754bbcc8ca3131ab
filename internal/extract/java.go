package extract

import "regexp"

// javaField matches one field declaration per line, with optional leading
// annotations, access modifier, final, generic arguments and array suffix.
// Initialized fields (constants) are not matched.
var javaField = regexp.MustCompile(`(?m)^\s*(?:@\w+(?:\([^)]*\))?\s+)*(?:(?:private|protected|public)\s+)?(?:final\s+)?([\w.]+)(?:<[^;]*?>)?(?:\[\])?\s+(\w+)\s*;`)

// statements that look like "word word;" but declare nothing.
var javaKeywords = map[string]bool{
	"return": true, "throw": true, "new": true, "else": true,
	"case": true, "goto": true, "yield": true, "break": true,
	"continue": true, "package": true, "import": true, "static": true,
}

// Java extracts fields from a Java class. The declared type becomes the
// type tag, so "private Integer id;" yields {id Integer}.
func Java(src string) []Field {
	var fields []Field
	for _, m := range javaField.FindAllStringSubmatch(src, -1) {
		typ, name := m[1], m[2]
		if javaKeywords[typ] || javaKeywords[name] {
			continue
		}
		fields = append(fields, Field{Name: name, Type: typ})
	}
	return dedupe(fields)
}

package editor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Field names used for validation errors and error clearing. Aligned with
// the API's JSON field names.
const (
	FieldName      = "name"
	FieldText      = "text"
	FieldURL       = "url"
	FieldTags      = "tags"
	FieldArguments = "arguments"
	FieldArchiveAt = "archive_at"
)

// Limits carries the configuration-supplied field constraints. Zero values
// mean "no ceiling" so a partially configured instance still validates.
type Limits struct {
	NameMaxLen    int
	TextMaxLen    int
	URLMaxLen     int
	TagMaxLen     int
	TagsMax       int
	ArgNameMaxLen int
}

// Result maps field names to error messages. Empty means valid.
type Result map[string]string

// Valid reports whether the result carries no errors.
func (r Result) Valid() bool { return len(r) == 0 }

var (
	argNameRe     = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	templateVarRe = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)
)

// Quick is the real-time save gate: it answers "could this content save?"
// without building messages, so it is cheap enough to run per keystroke.
// Full produces the messages and runs only on submit.
func Quick(c Content, l Limits) bool {
	if strings.TrimSpace(c.Name) == "" {
		return false
	}
	if exceeds(len(c.Name), l.NameMaxLen) || exceeds(len(c.Text), l.TextMaxLen) {
		return false
	}
	if exceeds(len(c.Tags), l.TagsMax) {
		return false
	}
	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" || exceeds(len(tag), l.TagMaxLen) {
			return false
		}
	}

	switch c.Type {
	case DocTypeBookmark:
		if !validBookmarkURL(c.URL, l) {
			return false
		}
	case DocTypePrompt:
		if !quickArguments(c, l) {
			return false
		}
	}
	return true
}

// Full validates for submission, returning blocking errors and non-blocking
// warnings separately. Warnings (an argument declared but never referenced)
// never prevent a save.
func Full(c Content, l Limits) (errs Result, warnings Result) {
	errs = Result{}
	warnings = Result{}

	if strings.TrimSpace(c.Name) == "" {
		errs[FieldName] = "name must not be empty"
	} else if exceeds(len(c.Name), l.NameMaxLen) {
		errs[FieldName] = fmt.Sprintf("name exceeds %d characters", l.NameMaxLen)
	}
	if exceeds(len(c.Text), l.TextMaxLen) {
		errs[FieldText] = fmt.Sprintf("content exceeds %d characters", l.TextMaxLen)
	}
	if exceeds(len(c.Tags), l.TagsMax) {
		errs[FieldTags] = fmt.Sprintf("at most %d tags allowed", l.TagsMax)
	} else {
		for _, tag := range c.Tags {
			if strings.TrimSpace(tag) == "" {
				errs[FieldTags] = "tags must not be empty"
				break
			}
			if exceeds(len(tag), l.TagMaxLen) {
				errs[FieldTags] = fmt.Sprintf("tag %q exceeds %d characters", tag, l.TagMaxLen)
				break
			}
		}
	}

	switch c.Type {
	case DocTypeBookmark:
		if strings.TrimSpace(c.URL) == "" {
			errs[FieldURL] = "url must not be empty"
		} else if exceeds(len(c.URL), l.URLMaxLen) {
			errs[FieldURL] = fmt.Sprintf("url exceeds %d characters", l.URLMaxLen)
		} else if !parsesAsHTTP(c.URL) {
			errs[FieldURL] = "url must be a valid http(s) address"
		}
	case DocTypePrompt:
		validateArguments(c, l, errs, warnings)
	}

	return errs, warnings
}

// validateArguments enforces the bidirectional contract between declared
// arguments and template variables: every {{variable}} in the body must be
// declared (error), and every declared argument should be referenced
// (warning only).
func validateArguments(c Content, l Limits, errs, warnings Result) {
	seen := map[string]bool{}
	for _, arg := range c.Arguments {
		if !argNameRe.MatchString(arg.Name) {
			errs[FieldArguments] = fmt.Sprintf("argument name %q is not a valid identifier", arg.Name)
			return
		}
		if exceeds(len(arg.Name), l.ArgNameMaxLen) {
			errs[FieldArguments] = fmt.Sprintf("argument name %q exceeds %d characters", arg.Name, l.ArgNameMaxLen)
			return
		}
		if seen[arg.Name] {
			errs[FieldArguments] = fmt.Sprintf("argument %q is declared twice", arg.Name)
			return
		}
		seen[arg.Name] = true
	}

	referenced := map[string]bool{}
	for _, m := range templateVarRe.FindAllStringSubmatch(c.Text, -1) {
		referenced[m[1]] = true
	}

	for name := range referenced {
		if !seen[name] {
			errs[FieldArguments] = fmt.Sprintf("template references undeclared argument %q", name)
			return
		}
	}
	for _, arg := range c.Arguments {
		if !referenced[arg.Name] {
			warnings[FieldArguments] = fmt.Sprintf("argument %q is never referenced in the template", arg.Name)
			return
		}
	}
}

func quickArguments(c Content, l Limits) bool {
	seen := map[string]bool{}
	for _, arg := range c.Arguments {
		if !argNameRe.MatchString(arg.Name) || exceeds(len(arg.Name), l.ArgNameMaxLen) || seen[arg.Name] {
			return false
		}
		seen[arg.Name] = true
	}
	for _, m := range templateVarRe.FindAllStringSubmatch(c.Text, -1) {
		if !seen[m[1]] {
			return false
		}
	}
	return true
}

func validBookmarkURL(raw string, l Limits) bool {
	if strings.TrimSpace(raw) == "" || exceeds(len(raw), l.URLMaxLen) {
		return false
	}
	return parsesAsHTTP(raw)
}

func parsesAsHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func exceeds(n, max int) bool { return max > 0 && n > max }

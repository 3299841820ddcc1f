package editor

import (
	"strings"
	"testing"
)

var testLimits = Limits{
	NameMaxLen:    20,
	TextMaxLen:    100,
	URLMaxLen:     50,
	TagMaxLen:     10,
	TagsMax:       3,
	ArgNameMaxLen: 12,
}

// --- Quick ---

func TestQuickRequiresName(t *testing.T) {
	c := Content{Type: DocTypeNote, Name: "  "}
	if Quick(c, testLimits) {
		t.Error("blank name passed the save gate")
	}
}

func TestQuickEnforcesLimits(t *testing.T) {
	c := Content{Type: DocTypeNote, Name: strings.Repeat("x", 21)}
	if Quick(c, testLimits) {
		t.Error("oversized name passed the save gate")
	}

	c = Content{Type: DocTypeNote, Name: "ok", Text: strings.Repeat("x", 101)}
	if Quick(c, testLimits) {
		t.Error("oversized text passed the save gate")
	}

	c = Content{Type: DocTypeNote, Name: "ok", Tags: []string{"a", "b", "c", "d"}}
	if Quick(c, testLimits) {
		t.Error("too many tags passed the save gate")
	}
}

func TestQuickZeroLimitMeansNoCeiling(t *testing.T) {
	c := Content{Type: DocTypeNote, Name: "ok", Text: strings.Repeat("x", 100_000)}
	if !Quick(c, Limits{}) {
		t.Error("zero limits rejected long text")
	}
}

func TestQuickBookmarkNeedsValidURL(t *testing.T) {
	c := Content{Type: DocTypeBookmark, Name: "site", URL: "not a url"}
	if Quick(c, testLimits) {
		t.Error("malformed URL passed the save gate")
	}
	c.URL = "https://example.com"
	if !Quick(c, testLimits) {
		t.Error("valid URL failed the save gate")
	}
}

func TestQuickPromptUndeclaredVariable(t *testing.T) {
	c := Content{Type: DocTypePrompt, Name: "p", Text: "Summarize {{topic}}"}
	if Quick(c, testLimits) {
		t.Error("undeclared template variable passed the save gate")
	}
	c.Arguments = []Argument{{Name: "topic"}}
	if !Quick(c, testLimits) {
		t.Error("declared template variable failed the save gate")
	}
}

// --- Full ---

func TestFullEmptyNameMessage(t *testing.T) {
	errs, _ := Full(Content{Type: DocTypeNote}, testLimits)
	if errs[FieldName] == "" {
		t.Errorf("errs = %v, want a name error", errs)
	}
}

func TestFullBlankTag(t *testing.T) {
	errs, _ := Full(Content{Type: DocTypeNote, Name: "ok", Tags: []string{"good", " "}}, testLimits)
	if errs[FieldTags] == "" {
		t.Errorf("errs = %v, want a tags error", errs)
	}
}

func TestFullBookmarkSchemeRequired(t *testing.T) {
	errs, _ := Full(Content{Type: DocTypeBookmark, Name: "s", URL: "ftp://example.com"}, testLimits)
	if errs[FieldURL] == "" {
		t.Errorf("errs = %v, want a url error", errs)
	}
}

func TestFullDuplicateArgument(t *testing.T) {
	c := Content{
		Type: DocTypePrompt, Name: "p",
		Arguments: []Argument{{Name: "topic"}, {Name: "topic"}},
	}
	errs, _ := Full(c, testLimits)
	if errs[FieldArguments] == "" {
		t.Errorf("errs = %v, want a duplicate-argument error", errs)
	}
}

func TestFullBadArgumentName(t *testing.T) {
	c := Content{Type: DocTypePrompt, Name: "p", Arguments: []Argument{{Name: "2bad"}}}
	errs, _ := Full(c, testLimits)
	if errs[FieldArguments] == "" {
		t.Errorf("errs = %v, want an identifier error", errs)
	}
}

func TestFullUndeclaredReferenceIsError(t *testing.T) {
	c := Content{Type: DocTypePrompt, Name: "p", Text: "about {{ topic }}"}
	errs, warnings := Full(c, testLimits)
	if errs[FieldArguments] == "" {
		t.Errorf("errs = %v, want an undeclared-argument error", errs)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestFullUnreferencedArgumentIsWarningOnly(t *testing.T) {
	c := Content{
		Type: DocTypePrompt, Name: "p",
		Text:      "plain text",
		Arguments: []Argument{{Name: "topic"}},
	}
	errs, warnings := Full(c, testLimits)
	if !errs.Valid() {
		t.Errorf("errs = %v, want none", errs)
	}
	if warnings[FieldArguments] == "" {
		t.Errorf("warnings = %v, want an unreferenced-argument warning", warnings)
	}
}

func TestFullValidPromptRoundTrip(t *testing.T) {
	c := Content{
		Type: DocTypePrompt, Name: "summarize",
		Text:      "Summarize {{topic}} in {{style}} style.",
		Arguments: []Argument{{Name: "topic", Required: true}, {Name: "style"}},
	}
	errs, warnings := Full(c, testLimits)
	if !errs.Valid() || len(warnings) != 0 {
		t.Errorf("errs = %v, warnings = %v, want clean", errs, warnings)
	}
}

func TestQuickAgreesWithFullOnErrors(t *testing.T) {
	cases := []Content{
		{Type: DocTypeNote, Name: ""},
		{Type: DocTypeNote, Name: "ok"},
		{Type: DocTypeBookmark, Name: "b", URL: "https://example.com"},
		{Type: DocTypeBookmark, Name: "b", URL: "nope"},
		{Type: DocTypePrompt, Name: "p", Text: "{{x}}"},
		{Type: DocTypePrompt, Name: "p", Text: "{{x}}", Arguments: []Argument{{Name: "x"}}},
	}
	for i, c := range cases {
		errs, _ := Full(c, testLimits)
		if Quick(c, testLimits) != errs.Valid() {
			t.Errorf("case %d: Quick = %v but Full errs = %v", i, Quick(c, testLimits), errs)
		}
	}
}

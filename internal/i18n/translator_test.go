package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestTranslatorEnglish(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("en")

	tests := []struct {
		id   string
		want string
	}{
		{id: MsgSuccess, want: "Matching values attached to IDs in the file."},
		{id: MsgNoFileSelected, want: "No JSON file selected."},
		{id: MsgNoActiveDocument, want: "No active editor found."},
		{id: MsgParseError, want: "Error parsing JSON"},
	}

	for _, tt := range tests {
		if got := tr.T(tt.id, nil); got != tt.want {
			t.Errorf("T(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestTranslatorTemplateData(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("en")
	if got := tr.T(MsgResolvedValue, map[string]any{"Value": "Hi there"}); got != "Hi there" {
		t.Errorf("T(ResolvedValue) = %q, want %q", got, "Hi there")
	}
}

func TestTranslatorPlural(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("en")
	if got := tr.Plural(MsgMissingKeys, 1); got != "1 translation key could not be resolved." {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := tr.Plural(MsgMissingKeys, 3); got != "3 translation keys could not be resolved." {
		t.Errorf("Plural(3) = %q", got)
	}
}

func TestTranslatorKorean(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("ko-KR")
	if tr.Language() != language.Korean {
		t.Errorf("Language() = %v, want ko", tr.Language())
	}
	if got := tr.T(MsgNoFileSelected, nil); got != "선택된 JSON 파일이 없습니다." {
		t.Errorf("T(NoFileSelected) = %q", got)
	}
}

func TestTranslatorFallbacks(t *testing.T) {
	t.Parallel()

	tr := NewTranslator("not a tag!!")
	if tr.Language() != language.English {
		t.Errorf("Language() = %v, want en", tr.Language())
	}
	if got := tr.T("NoSuchMessage", nil); got != "NoSuchMessage" {
		t.Errorf("T(unknown) = %q, want the id back", got)
	}
	if got := tr.T("", nil); got != "" {
		t.Errorf("T(\"\") = %q, want empty", got)
	}
}

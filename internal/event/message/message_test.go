package message

import (
	"testing"

	"golang.org/x/text/language"
)

func TestText(t *testing.T) {
	tests := []struct {
		code Code
		args []any
		want string
	}{
		{QueueNotFound, []any{"login"}, `callables not found for event "login"`},
		{InvalidPriority, []any{101, 0, 100}, "priority 101 out of range [0, 100]"},
		{CallableRuntime, []any{"boom"}, "callable runtime error: boom"},
		{ImmutableMethod, []any{"AttachListener"}, `method "AttachListener" is not allowed on an immutable event manager`},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := Text(tt.code, tt.args...); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter_SimplifiedChinese(t *testing.T) {
	p := NewPrinter(language.MustParse("zh-CN"))

	if got, want := p.Text(QueueNotFound, "login"), `事件 "login" 无可执行函数`; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got, want := p.Text(CallableRuntime, "boom"), "事件执行错误: boom"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestPrinter_Fallback(t *testing.T) {
	p := NewPrinter(language.French)

	if got, want := p.Text(InvalidEventName, " "), `invalid event name " "`; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestCatalogComplete(t *testing.T) {
	for c := PropertyNotFound; c <= ImmutableMethod; c++ {
		if _, ok := english[c]; !ok {
			t.Errorf("%v has no English text", c)
		}
		if _, ok := simplifiedChinese[c]; !ok {
			t.Errorf("%v has no Chinese text", c)
		}
	}
}

func TestParseLocale(t *testing.T) {
	if got := ParseLocale("zh-CN"); got != language.MustParse("zh-CN") {
		t.Errorf("ParseLocale(zh-CN) = %v", got)
	}
	if got := ParseLocale("!!"); got != language.English {
		t.Errorf("ParseLocale(invalid) = %v, want en", got)
	}
}

func TestCodeString(t *testing.T) {
	if got := Code(99).String(); got != "Code(99)" {
		t.Errorf("String() = %q", got)
	}
}

// Package message holds the symbolic codes and localized text used by
// event errors.
//
// Codes cross package boundaries; text is rendered only when an error is
// printed. English is always available and is the fallback for any
// language without a translation.
package message

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Code identifies a message independently of its wording.
type Code int

const (
	// PropertyNotFound: event has no such property. Args: event name, property.
	PropertyNotFound Code = iota + 1
	// ManagerNotFound: an emitter has no manager set. Args: owner type.
	ManagerNotFound
	// InvalidEventListener: value is not a listener. Args: value type.
	InvalidEventListener
	// InvalidEventCallable: a declaration resolved to nothing invocable. Args: event name.
	InvalidEventCallable
	// QueueNotFound: no queue registered for a name. Args: event name.
	QueueNotFound
	// CallableRuntime: a listener failed during dispatch. Args: cause message.
	CallableRuntime
	// InvalidEventName: blank event name. Args: offending name.
	InvalidEventName
	// InvalidPriority: priority outside the allowed range. Args: priority, min, max.
	InvalidPriority
	// InvalidEventManager: manager cannot join a composite pool. Args: manager type.
	InvalidEventManager
	// ImmutableMethod: mutating call on an immutable manager. Args: method name.
	ImmutableMethod
)

// key returns the catalog key for a code. Keys are the English formats so an
// unknown language still renders readable text.
func (c Code) key() string {
	if f, ok := english[c]; ok {
		return f
	}
	return "unknown event error %v"
}

// String returns the code's symbolic name.
func (c Code) String() string {
	switch c {
	case PropertyNotFound:
		return "PropertyNotFound"
	case ManagerNotFound:
		return "ManagerNotFound"
	case InvalidEventListener:
		return "InvalidEventListener"
	case InvalidEventCallable:
		return "InvalidEventCallable"
	case QueueNotFound:
		return "QueueNotFound"
	case CallableRuntime:
		return "CallableRuntime"
	case InvalidEventName:
		return "InvalidEventName"
	case InvalidPriority:
		return "InvalidPriority"
	case InvalidEventManager:
		return "InvalidEventManager"
	case ImmutableMethod:
		return "ImmutableMethod"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

var english = map[Code]string{
	PropertyNotFound:     "event %q has no property %q",
	ManagerNotFound:      "event manager not set in %q",
	InvalidEventListener: "%q is not an event listener",
	InvalidEventCallable: "invalid event callable for %q",
	QueueNotFound:        "callables not found for event %q",
	CallableRuntime:      "callable runtime error: %s",
	InvalidEventName:     "invalid event name %q",
	InvalidPriority:      "priority %d out of range [%d, %d]",
	InvalidEventManager:  "%q can not be used as a peer event manager",
	ImmutableMethod:      "method %q is not allowed on an immutable event manager",
}

var simplifiedChinese = map[Code]string{
	PropertyNotFound:     "事件 %q 没有此属性 %q",
	ManagerNotFound:      "%q 中还未设置事件管理员",
	InvalidEventListener: "%q 不是事件聆听者",
	InvalidEventCallable: "事件 %q 中发现不可执行函数",
	QueueNotFound:        "事件 %q 无可执行函数",
	CallableRuntime:      "事件执行错误: %s",
	InvalidEventName:     "事件名称错误 %q",
	InvalidPriority:      "优先级 %d 超出范围 [%d, %d]",
	InvalidEventManager:  "%q 不能作为附属事件管理员",
	ImmutableMethod:      "不可变事件管理员不允许调用方法 %q",
}

// Catalog is the message catalog shared by all printers. It is built once
// and never modified afterwards.
var Catalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for code, format := range english {
		_ = b.SetString(language.English, code.key(), format)
	}
	for code, format := range simplifiedChinese {
		_ = b.SetString(language.SimplifiedChinese, code.key(), format)
	}
	return b
}

// Supported lists the languages with a full translation.
func Supported() []language.Tag {
	return []language.Tag{language.English, language.SimplifiedChinese}
}

// Printer renders codes in one language.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a printer for the closest supported match of tag.
func NewPrinter(tag language.Tag) *Printer {
	matcher := language.NewMatcher(Supported())
	_, idx, _ := matcher.Match(tag)
	return &Printer{
		p: message.NewPrinter(Supported()[idx], message.Catalog(Catalog)),
	}
}

// ParseLocale parses a BCP 47 locale string, falling back to English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// Text renders code with args.
func (p *Printer) Text(code Code, args ...any) string {
	return p.p.Sprintf(code.key(), args...)
}

var defaultPrinter = NewPrinter(language.English)

// Text renders code in English.
func Text(code Code, args ...any) string {
	return defaultPrinter.Text(code, args...)
}

package formwalker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

var errNotSelect = errors.New("element is not a <select>")

// selectElement drives the options of a <select> element.
type selectElement struct {
	el      selenium.WebElement
	isMulti bool
}

func newSelect(el selenium.WebElement) (*selectElement, error) {
	tag, err := el.TagName()
	if err != nil {
		return nil, Classify(err)
	}
	if !strings.EqualFold(tag, "select") {
		return nil, fmt.Errorf("%w: got <%s>", errNotSelect, tag)
	}
	multi, err := el.GetAttribute("multiple")
	if err != nil {
		// Drivers report a missing attribute as an error.
		multi = ""
	}
	return &selectElement{
		el:      el,
		isMulti: multi != "" && !strings.EqualFold(multi, "false"),
	}, nil
}

// selectByValue selects every option whose value attribute equals value. For
// single selects only the first match is selected.
func (s *selectElement) selectByValue(value string) error {
	opts, err := s.el.FindElements(selenium.ByXPATH, `.//option[@value = `+xpathLiteral(value)+`]`)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("%w: no option with value %q", ErrElementNotFound, value)
	}
	for _, opt := range opts {
		if err := setSelected(opt, true); err != nil {
			return err
		}
		if !s.isMulti {
			return nil
		}
	}
	return nil
}

func setSelected(opt selenium.WebElement, selected bool) error {
	sel, err := opt.IsSelected()
	if err != nil {
		return err
	}
	if sel == selected {
		return nil
	}
	return opt.Click()
}

// xpathLiteral quotes s for use in an XPath expression. XPath 1.0 has no
// escape sequences, so strings holding both quote kinds are built with
// concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

package formwalker

import (
	"errors"
	"testing"

	"github.com/tebeka/selenium"
)

// fakeOption implements the parts of selenium.WebElement used on options.
type fakeOption struct {
	selenium.WebElement
	selected bool
	clicks   int
}

func (o *fakeOption) IsSelected() (bool, error) { return o.selected, nil }

func (o *fakeOption) Click() error {
	o.clicks++
	o.selected = !o.selected
	return nil
}

// fakeSelect implements the parts of selenium.WebElement used on <select>.
type fakeSelect struct {
	selenium.WebElement
	tag      string
	multiple string
	options  map[string][]selenium.WebElement
	queries  []string
}

func (s *fakeSelect) TagName() (string, error) { return s.tag, nil }

func (s *fakeSelect) GetAttribute(name string) (string, error) {
	if name == "multiple" && s.multiple != "" {
		return s.multiple, nil
	}
	return "", errors.New("no such attribute")
}

func (s *fakeSelect) FindElements(by, value string) ([]selenium.WebElement, error) {
	s.queries = append(s.queries, value)
	return s.options[value], nil
}

func TestSelectByValue(t *testing.T) {
	two := &fakeOption{}
	sel := &fakeSelect{
		tag: "SELECT",
		options: map[string][]selenium.WebElement{
			`.//option[@value = "2"]`: {two},
		},
	}
	if err := (&remoteElement{WebElement: sel}).SelectByValue("2"); err != nil {
		t.Fatalf("SelectByValue(2) returned error: %v", err)
	}
	if !two.selected || two.clicks != 1 {
		t.Errorf("option selected = %t after %d clicks, want selected after 1", two.selected, two.clicks)
	}

	// Selecting an already selected option leaves it alone.
	if err := (&remoteElement{WebElement: sel}).SelectByValue("2"); err != nil {
		t.Fatalf("SelectByValue(2) returned error: %v", err)
	}
	if two.clicks != 1 {
		t.Errorf("clicks = %d after reselecting, want 1", two.clicks)
	}
}

func TestSelectByValueSingleSelectStopsAtFirst(t *testing.T) {
	a, b := &fakeOption{}, &fakeOption{}
	sel := &fakeSelect{
		tag:     "select",
		options: map[string][]selenium.WebElement{`.//option[@value = "x"]`: {a, b}},
	}
	s, err := newSelect(sel)
	if err != nil {
		t.Fatalf("newSelect() returned error: %v", err)
	}
	if err := s.selectByValue("x"); err != nil {
		t.Fatalf("selectByValue() returned error: %v", err)
	}
	if !a.selected || b.selected {
		t.Errorf("selected = (%t, %t), want (true, false)", a.selected, b.selected)
	}

	sel.multiple = "true"
	a.selected = false
	s, err = newSelect(sel)
	if err != nil {
		t.Fatalf("newSelect() returned error: %v", err)
	}
	if err := s.selectByValue("x"); err != nil {
		t.Fatalf("selectByValue() returned error: %v", err)
	}
	if !a.selected || !b.selected {
		t.Errorf("multi select: selected = (%t, %t), want (true, true)", a.selected, b.selected)
	}
}

func TestSelectByValueErrors(t *testing.T) {
	if err := (&remoteElement{WebElement: &fakeSelect{tag: "input"}}).SelectByValue("2"); !errors.Is(err, errNotSelect) {
		t.Errorf("SelectByValue on <input> error = %v, want errNotSelect", err)
	}
	if err := (&remoteElement{WebElement: &fakeSelect{tag: "select"}}).SelectByValue("9"); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("SelectByValue with no matching option error = %v, want ErrElementNotFound", err)
	}
}

func TestXPathLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`2`, `"2"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's`, `"it's"`},
		{`a"b'c`, `concat("a", '"', "b'c")`},
		{`"'`, `concat('"', "'")`},
	}
	for _, test := range tests {
		if got := xpathLiteral(test.in); got != test.want {
			t.Errorf("xpathLiteral(%q) = %s, want %s", test.in, got, test.want)
		}
	}
}

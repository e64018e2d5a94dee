package cmd

import (
	"slices"
	"testing"
)

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, cmd := range Commands {
		if _, ok := c.Sub[cmd.Name()]; !ok {
			t.Errorf("no completion for %q", cmd.Name())
		}
	}
	if _, ok := c.Flags["currency"]; !ok {
		t.Errorf("no completion for the global -currency flag")
	}
	value := c.Sub["value"]
	for _, name := range []string{"revenue", "g15", "wacc", "preset", "jsonpath"} {
		if _, ok := value.Flags[name]; !ok {
			t.Errorf("no completion for value -%s", name)
		}
	}
	if got := value.Flags["preset"].Predict(""); !slices.Contains(got, "googl") {
		t.Errorf("value -preset predicts %v, want googl", got)
	}
	if got := c.Sub["topic"].Args.Predict(""); !slices.Contains(got, "assumptions") {
		t.Errorf("topic predicts %v, want assumptions", got)
	}
}

func TestIsCommand(t *testing.T) {
	for _, name := range []string{"value", "serve", "help"} {
		if !IsCommand(name) {
			t.Errorf("IsCommand(%q) = false", name)
		}
	}
	if IsCommand("hello") {
		t.Errorf("IsCommand(hello) = true")
	}
}

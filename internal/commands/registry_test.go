package commands

import "testing"

type stubCmd struct {
	HelpCmd
	name    string
	aliases []string
}

func (c *stubCmd) Name() string      { return c.name }
func (c *stubCmd) Aliases() []string { return c.aliases }

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubCmd{name: "add", aliases: []string{"create"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []*stubCmd{
		{name: "add"},
		{name: "new", aliases: []string{"create"}},
		{name: "x", aliases: []string{"y", "y"}},
		{name: "z", aliases: []string{""}},
	}
	for _, c := range tests {
		if err := r.Register(c); err == nil {
			t.Errorf("expected error registering %q %v", c.name, c.aliases)
		}
	}

	if _, ok := r.Find("new"); ok {
		t.Error("a rejected command must not be registered")
	}
	all := r.All()
	if len(all) != 1 || all[0].Name() != "add" {
		t.Errorf("expected only add, got %d commands", len(all))
	}
}

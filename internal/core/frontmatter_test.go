package core

import "testing"

func TestExtractBlock_Bare(t *testing.T) {
	content := "---\nname: Foo\ndescription: Bar\n---\n\n# Heading\nBody text.\n"
	block, ok := ExtractBlock(content, "skill")
	if !ok {
		t.Fatal("ExtractBlock() ok = false, want true")
	}
	want := "name: Foo\ndescription: Bar\n"
	if block != want {
		t.Errorf("block = %q, want %q", block, want)
	}
}

func TestExtractBlock_Fenced(t *testing.T) {
	content := "# Readme\n\n```skill\n---\nname: Foo\n---\n```\n"
	block, ok := ExtractBlock(content, "skill")
	if !ok {
		t.Fatal("ExtractBlock() ok = false, want true")
	}
	if block != "name: Foo\n" {
		t.Errorf("block = %q", block)
	}
}

func TestExtractBlock_FencedTakesPrecedence(t *testing.T) {
	// Both conventions match; the fenced form is checked first.
	content := "---\nname: Outer\n---\n\n```skill\n---\nname: Inner\n---\n```\n"
	block, ok := ExtractBlock(content, "skill")
	if !ok {
		t.Fatal("ExtractBlock() ok = false, want true")
	}
	fields := ParseBlock(block)
	if fields["name"] != "Inner" {
		t.Errorf("name = %q, want %q", fields["name"], "Inner")
	}
}

func TestExtractBlock_None(t *testing.T) {
	for _, content := range []string{
		"",
		"# Just markdown\nNo metadata here.\n",
		"---\nunterminated block\n",
	} {
		if _, ok := ExtractBlock(content, "skill"); ok {
			t.Errorf("ExtractBlock(%q) ok = true, want false", content)
		}
	}
}

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name      string
		block     string
		wantName  string
		wantDescr string
	}{
		{
			name:      "plain values",
			block:     "name: Foo\ndescription: Bar\n",
			wantName:  "Foo",
			wantDescr: "Bar",
		},
		{
			name:      "double quoted",
			block:     "name: \"Foo\"\ndescription: \"Bar baz\"\n",
			wantName:  "Foo",
			wantDescr: "Bar baz",
		},
		{
			name:      "single quoted",
			block:     "name: 'Foo'\n",
			wantName:  "Foo",
			wantDescr: "",
		},
		{
			name:      "missing keys are empty",
			block:     "version: 1\n",
			wantName:  "",
			wantDescr: "",
		},
		{
			name:      "malformed falls back to line scan",
			block:     "name: Foo\n\tbad: [indent\ndescription: Bar\n",
			wantName:  "Foo",
			wantDescr: "Bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ParseBlock(tt.block)
			if fields["name"] != tt.wantName {
				t.Errorf("name = %q, want %q", fields["name"], tt.wantName)
			}
			if fields["description"] != tt.wantDescr {
				t.Errorf("description = %q, want %q", fields["description"], tt.wantDescr)
			}
		})
	}
}

func TestParseDescriptor_FencedWrappingDashed(t *testing.T) {
	content := "```subagent\n---\nname: Foo\ndescription: Bar\n---\n```\n"
	meta := ParseDescriptor(content, KindSubagent)
	if meta.DisplayName != "Foo" || meta.Description != "Bar" {
		t.Errorf("ParseDescriptor() = %+v, want {Foo Bar}", meta)
	}
}

func TestParseDescriptor_NoBlock(t *testing.T) {
	meta := ParseDescriptor("# Nothing to see\n", KindSkill)
	if meta.DisplayName != "" || meta.Description != "" {
		t.Errorf("ParseDescriptor() = %+v, want empty fields", meta)
	}
}

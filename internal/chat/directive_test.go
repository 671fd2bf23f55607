package chat

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Input
	}{
		{"exit", "exit", Input{Kind: DirectiveExit}},
		{"quit", "quit", Input{Kind: DirectiveExit}},
		{"exit uppercase", "EXIT", Input{Kind: DirectiveExit}},
		{"quit mixed case", "Quit", Input{Kind: DirectiveExit}},
		{"exit padded", "  exit  ", Input{Kind: DirectiveExit}},
		{"clear", "clear", Input{Kind: DirectiveClear}},
		{"models", "models", Input{Kind: DirectiveModels}},
		{"multiline marker", `"""`, Input{Kind: DirectiveMultiline}},
		{"file", "file:notes.txt", Input{Kind: DirectiveFile, Arg: "notes.txt"}},
		{"file padded arg", "file:  notes.txt ", Input{Kind: DirectiveFile, Arg: "notes.txt"}},
		{"file empty arg", "file:", Input{Kind: DirectiveFile, Arg: ""}},
		{"system", "system:be brief", Input{Kind: DirectiveSystem, Arg: "be brief"}},
		{"temp", "temp:0.2", Input{Kind: DirectiveTemp, Arg: "0.2"}},
		{"model with name", "model:llama3", Input{Kind: DirectiveModel, Arg: "llama3"}},
		{"model bare", "model:", Input{Kind: DirectiveModel, Arg: ""}},
		{"plain text", "hello there", Input{Kind: PlainText, Text: "hello there"}},
		{"exit mid-sentence is text", "exit the building", Input{Kind: PlainText, Text: "exit the building"}},
		{"colon without prefix is text", "note: remember", Input{Kind: PlainText, Text: "note: remember"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

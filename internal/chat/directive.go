package chat

import "strings"

// DirectiveKind classifies one line of interactive input. Every line maps
// to exactly one kind; anything unrecognized is plain text destined for the
// model.
type DirectiveKind int

const (
	PlainText DirectiveKind = iota
	DirectiveExit
	DirectiveClear
	DirectiveFile
	DirectiveSystem
	DirectiveTemp
	DirectiveModel
	DirectiveModels
	DirectiveMultiline
)

// MultilineMarker toggles multiline collection; content between two marker
// lines becomes a single user turn.
const MultilineMarker = `"""`

// Input is the tagged result of classifying a line.
type Input struct {
	Kind DirectiveKind
	Arg  string // directive argument, trimmed
	Text string // original line for PlainText
}

// ParseLine classifies a single input line before the session loop acts on
// it.
func ParseLine(line string) Input {
	trimmed := strings.TrimSpace(line)

	switch strings.ToLower(trimmed) {
	case "exit", "quit":
		return Input{Kind: DirectiveExit}
	case "clear":
		return Input{Kind: DirectiveClear}
	case "models":
		return Input{Kind: DirectiveModels}
	}
	if trimmed == MultilineMarker {
		return Input{Kind: DirectiveMultiline}
	}

	for prefix, kind := range map[string]DirectiveKind{
		"file:":   DirectiveFile,
		"system:": DirectiveSystem,
		"temp:":   DirectiveTemp,
		"model:":  DirectiveModel,
	} {
		if strings.HasPrefix(trimmed, prefix) {
			return Input{Kind: kind, Arg: strings.TrimSpace(trimmed[len(prefix):])}
		}
	}

	return Input{Kind: PlainText, Text: line}
}

package platform

import (
	"fmt"
	"strings"
)

func toneCandidates() []commandSpec {
	return []commandSpec{
		{name: "powershell", args: func(path string) []string {
			script := fmt.Sprintf("(New-Object Media.SoundPlayer %s).PlaySync()", powershellQuote(path))
			return []string{"-NoProfile", "-NonInteractive", "-Command", script}
		}},
	}
}

func speechCandidates() []commandSpec {
	return []commandSpec{
		{name: "powershell", args: func(text string) []string {
			script := "Add-Type -AssemblyName System.Speech; " +
				"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak(" + powershellQuote(text) + ")"
			return []string{"-NoProfile", "-NonInteractive", "-Command", script}
		}},
	}
}

func powershellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

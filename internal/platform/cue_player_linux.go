package platform

func toneCandidates() []commandSpec {
	return []commandSpec{
		{name: "paplay", args: func(path string) []string { return []string{path} }},
		{name: "pw-play", args: func(path string) []string { return []string{path} }},
		{name: "aplay", args: func(path string) []string { return []string{"-q", path} }},
	}
}

func speechCandidates() []commandSpec {
	return []commandSpec{
		{name: "espeak-ng", args: func(text string) []string { return []string{text} }},
		{name: "espeak", args: func(text string) []string { return []string{text} }},
		{
			name:   "spd-say",
			args:   func(text string) []string { return []string{"--wait", text} },
			cancel: []string{"-C"},
		},
	}
}

package platform

func toneCandidates() []commandSpec {
	return []commandSpec{
		{name: "afplay", args: func(path string) []string { return []string{path} }},
	}
}

func speechCandidates() []commandSpec {
	return []commandSpec{
		{name: "say", args: func(text string) []string { return []string{text} }},
	}
}

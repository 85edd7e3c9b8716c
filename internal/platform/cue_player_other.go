//go:build !darwin && !linux && !windows

package platform

func toneCandidates() []commandSpec   { return nil }
func speechCandidates() []commandSpec { return nil }

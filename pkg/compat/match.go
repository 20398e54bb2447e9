package compat

import "strings"

// ContainsFold reports whether needle occurs in haystack, ignoring case.
// This is the single matching contract used for capability-to-module
// matching, adapter-to-provider matching, and workflow-to-system linking.
// Isolated here so it can be swapped for exact-key matching later without
// touching the scoring or graph orchestration.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// AnyContainsFold reports whether any of the haystacks contains needle,
// ignoring case.
func AnyContainsFold(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if ContainsFold(h, needle) {
			return true
		}
	}
	return false
}

// Package intent classifies raw turn text into routing signals.
// All classification is heuristic keyword matching over normalized text:
// pure functions, no side effects, no external calls. The keyword lists
// are package-level data so they can be extended without touching any
// routing logic.
package intent

import (
	"regexp"
	"strings"

	"eduvane/internal/types"
)

// =============================================================================
// KEYWORD DATA
// =============================================================================

// submissionKeywords are task verbs that mark text as gradable work.
// Biased toward false positives: analysis is the highest-value path, so
// ambiguous input is treated as a submission.
var submissionKeywords = []string{
	"solve", "calculate", "find", "evaluate", "simplify", "check", "analyze", "assess",
}

// generationKeywords mark a request for practice material.
var generationKeywords = []string{
	"generate", "create", "make", "quiz", "test", "practice", "questions", "exercises",
}

var greetings = []string{
	"hi", "hello", "hey", "greetings", "yo", "hiya", "sup", "howdy", "good morning",
}

var identityStarts = []string{
	"i am ", "im ", "my name is ", "call me ",
}

var phatics = []string{
	"ok", "okay", "thanks", "thank you", "cool", "nice",
}

var metaQuestions = []string{
	"who are you", "what is eduvane", "what is this", "what can you do", "help",
}

// nameBlacklist rejects captures that match the introduction pattern but
// are not names.
var nameBlacklist = map[string]bool{
	"a teacher": true,
	"a student": true,
	"ready":     true,
	"here":      true,
	"listening": true,
	"eduvane":   true,
}

var (
	// mathSignal matches implicit problem content: digits and operators.
	mathSignal = regexp.MustCompile(`[\d=+\-*/^]`)

	// namePattern captures the words following an introduction phrase up
	// to end of text or sentence punctuation.
	namePattern = regexp.MustCompile(`(?i)(?:^|\s)(?:i['’]m|i\s+am|my\s+name\s+is|call\s+me)\s+([a-zA-Z][a-zA-Z ]*?)\s*(?:$|[.!,])`)

	teacherPattern = regexp.MustCompile(`(?i)(?:^|\s)(?:teacher|educator|professor|instructor)`)
	studentPattern = regexp.MustCompile(`(?i)(?:^|\s)(?:student|learner|pupil)`)

	nonWord = regexp.MustCompile(`[^\w\s]`)
)

// =============================================================================
// CLASSIFICATION PREDICATES
// =============================================================================

// IsSubmission reports whether text heuristically resembles a problem or
// a worked attempt warranting grading: it carries a task verb, or it
// contains digit/operator characters and is longer than five characters.
func IsSubmission(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))

	for _, k := range submissionKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return mathSignal.MatchString(t) && len(t) > 5
}

// IsConversational reports whether text is small talk, a self
// introduction, or a meta question about the assistant.
func IsConversational(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	clean := strings.TrimSpace(nonWord.ReplaceAllString(t, ""))

	for _, g := range greetings {
		if clean == g || strings.HasPrefix(clean, g+" ") {
			return true
		}
	}
	for _, p := range identityStarts {
		if strings.HasPrefix(clean, p) || strings.Contains(clean, " "+p) {
			return true
		}
	}
	for _, p := range phatics {
		if clean == p {
			return true
		}
	}
	for _, q := range metaQuestions {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}

// IsGeneration reports whether text asks for practice material.
func IsGeneration(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, k := range generationKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// =============================================================================
// IDENTITY EXTRACTION
// =============================================================================

// Identity is a partial identity claim pulled from a turn. Either field
// may be absent.
type Identity struct {
	Name string
	Role types.UserRole
}

// ExtractIdentity pulls a display name and/or role claim from text.
// Names are title-cased; captures on the blacklist (e.g. "a teacher")
// are discarded.
func ExtractIdentity(text string) Identity {
	var id Identity
	t := strings.TrimSpace(text)

	if m := namePattern.FindStringSubmatch(t); len(m) > 1 {
		name := strings.TrimSpace(m[1])
		if name != "" && !nameBlacklist[strings.ToLower(name)] {
			id.Name = titleCase(name)
		}
	}

	if teacherPattern.MatchString(t) {
		id.Role = types.RoleTeacher
	} else if studentPattern.MatchString(t) {
		id.Role = types.RoleStudent
	}

	return id
}

// ParseSimpleRole maps a bare role answer ("teacher", "I'm a student")
// to a role. Used while a role inquiry is open, where looser matching
// is safe.
func ParseSimpleRole(text string) types.UserRole {
	t := strings.ToLower(text)
	if strings.Contains(t, "teacher") || strings.Contains(t, "educator") {
		return types.RoleTeacher
	}
	if strings.Contains(t, "student") || strings.Contains(t, "learner") {
		return types.RoleStudent
	}
	return types.RoleUnknown
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Package personality models the AI personas and squads a conversation can
// be addressed to. In backend mode a personality is just a routing id; in
// direct mode its description is synthesized into a system prompt.
package personality

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryFriend       Category = "friend"
	CategoryProfessional Category = "professional"
	CategoryCreative     Category = "creative"
	CategoryUtility      Category = "utility"
	CategorySpecialist   Category = "specialist"
)

// Personality is a named conversational persona.
type Personality struct {
	ID             string
	Name           string
	Category       Category
	Description    string
	Temperament    string
	SpeakingStyle  string
	ResponseLength string
	Active         bool
}

// Squad groups 2-3 personalities sharing one conversation context.
type Squad struct {
	ID      string
	Name    string
	Members []Personality
}

// SystemPrompt renders the persona as an inline system instruction for
// direct-model deployments, where no backend routing exists.
func (p Personality) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s", p.Name, p.Description)
	if p.Temperament != "" {
		fmt.Fprintf(&b, " Temperament: %s.", p.Temperament)
	}
	if p.SpeakingStyle != "" {
		fmt.Fprintf(&b, " Speaking style: %s.", p.SpeakingStyle)
	}
	if p.ResponseLength != "" {
		fmt.Fprintf(&b, " Keep responses %s.", p.ResponseLength)
	}
	return b.String()
}

// SystemPrompt combines the members into one persona description.
func (s Squad) SystemPrompt() string {
	if len(s.Members) == 0 {
		return fmt.Sprintf("You are %s, a squad of AI personalities.", s.Name)
	}
	names := make([]string, len(s.Members))
	descs := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.Name
		descs[i] = m.Description
	}
	return fmt.Sprintf(
		"You are %s, a squad featuring: %s. Combined expertise of: %s. Answer as one voice drawing on every member.",
		s.Name, strings.Join(names, ", "), strings.Join(descs, " + "))
}

// Builtins returns the personalities shipped with the client, used in direct
// mode where the backend registry is unavailable.
func Builtins() []Personality {
	return []Personality{
		{
			ID:             "friend-ai",
			Name:           "Friend AI",
			Category:       CategoryFriend,
			Description:    "Your friendly AI companion for casual conversations",
			Temperament:    "warm and upbeat",
			SpeakingStyle:  "casual",
			ResponseLength: "short",
			Active:         true,
		},
		{
			ID:             "pro-assistant",
			Name:           "Pro Assistant",
			Category:       CategoryProfessional,
			Description:    "Professional AI for work-related tasks",
			Temperament:    "focused and precise",
			SpeakingStyle:  "formal",
			ResponseLength: "concise",
			Active:         true,
		},
		{
			ID:             "creative-muse",
			Name:           "Creative Muse",
			Category:       CategoryCreative,
			Description:    "AI for creative inspiration and artistic collaboration",
			Temperament:    "playful and imaginative",
			SpeakingStyle:  "vivid",
			ResponseLength: "medium",
			Active:         true,
		},
	}
}

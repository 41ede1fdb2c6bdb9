package api

// Wire types for the Squad backend. Field names follow the backend's JSON
// contract; optional fields are pointers or omitempty.

// ── Chat generation ──────────────────────────────────────────────────────────

// ChatRequest is the body of POST /api/v1/ai/generate. Exactly one of AIID
// and SquadID may be set; both empty routes to the backend's default AI.
type ChatRequest struct {
	Message  string          `json:"message"`
	AIID     string          `json:"aiId,omitempty"`
	SquadID  string          `json:"squadId,omitempty"`
	History  []HistoryTurn   `json:"history,omitempty"`
	Settings RequestSettings `json:"settings"`
}

// HistoryTurn is a prior conversation turn included for context.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type RequestSettings struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	Language    string  `json:"language,omitempty"`
}

type ChatResponse struct {
	Content  string           `json:"content"`
	Metadata ResponseMetadata `json:"metadata"`
}

type ResponseMetadata struct {
	Tokens           int     `json:"tokens"`
	ProcessingTimeMs float64 `json:"processingTimeMs"`
	AIPersonality    string  `json:"aiPersonality"`
	PromptTokens     int     `json:"promptTokens,omitempty"`
	CompletionTokens int     `json:"completionTokens,omitempty"`
}

// ── Auth ─────────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenInfo is the token pair minted on login, registration and refresh.
// RefreshToken may be empty on refresh when the server does not rotate it.
type TokenInfo struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type AuthResponse struct {
	User   User      `json:"user"`
	Tokens TokenInfo `json:"tokens"`
}

// ── Personalities and squads ─────────────────────────────────────────────────

type AIPersonality struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PersonalityType string `json:"personality_type"`
	Temperament     string `json:"temperament"`
	SpeakingStyle   string `json:"speaking_style"`
	ResponseLength  string `json:"response_length"`
	IsActive        bool   `json:"is_active"`
}

type SquadInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
	MaxMembers  int      `json:"max_members,omitempty"`
}

type CreateSquadRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
	MaxMembers  int      `json:"maxMembers,omitempty"`
}

// ── Errors ───────────────────────────────────────────────────────────────────

// ErrorResponse is the backend's best-effort error body. Classification
// never depends on it; it only enriches messages.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package model

import "time"

// Route is the category a query is dispatched to.
type Route string

const (
	RouteFireSafety Route = "fire_safety"
	RouteSalesData  Route = "sales_data"
	RouteWebSearch  Route = "web_search"
)

// Routes lists every known route in label order.
var Routes = []Route{RouteFireSafety, RouteSalesData, RouteWebSearch}

// ParseRoute reports whether s is one of the known route labels.
func ParseRoute(s string) (Route, bool) {
	for _, r := range Routes {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one transcript entry. It is never modified after creation.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessage(role Role, content string) ChatMessage {
	return ChatMessage{Role: role, Content: content, CreatedAt: time.Now().UTC()}
}

type Chunk struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type AskRequest struct {
	Query string `json:"query"`
}

type AskResponse struct {
	Route         Route    `json:"route"`
	Rule          string   `json:"rule"`
	Answer        string   `json:"answer"`
	Transcription string   `json:"transcription,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

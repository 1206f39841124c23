package model

// ConversationComment is one entry of the read-only conversation thread in
// the author's note panel.
type ConversationComment struct {
	Initials  string
	Author    string
	Timestamp string
	Body      string // Markdown.
}

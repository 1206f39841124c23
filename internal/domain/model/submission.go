package model

// CommentSubmission is an inline comment the user attempted to post.
type CommentSubmission struct {
	PRID       string
	LineID     string
	Path       string
	LineNumber string
	Side       string // "LEFT" for deleted lines, "RIGHT" otherwise.
	Body       string
}

// ReviewSubmission is a review verdict the user attempted to post.
type ReviewSubmission struct {
	PRID string
	Type ReviewType
	Body string
}

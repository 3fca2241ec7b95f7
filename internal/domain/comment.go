package domain

// Comment is a reader comment on a post. Threads are two levels deep:
// a comment with an empty ParentID is top-level, anything else is a reply
// to a top-level comment.
type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Content     string    `json:"content"`
	ParentID    string    `json:"parent_id,omitempty"`
	CreatedDate Timestamp `json:"created_date"`
}

// IsReply reports whether the comment answers another comment.
func (c Comment) IsReply() bool {
	return c.ParentID != ""
}

// NewComment is the input for creating a comment.
type NewComment struct {
	PostID      string `json:"post_id" validate:"required"`
	AuthorName  string `json:"author_name" validate:"required,max=100"`
	AuthorEmail string `json:"author_email" validate:"required,loose_email"`
	Content     string `json:"content" validate:"required,max=5000"`
	ParentID    string `json:"parent_id,omitempty"`
}

// NewSubscriber is the input for a newsletter signup.
type NewSubscriber struct {
	Email string `json:"email" validate:"required,loose_email"`
}

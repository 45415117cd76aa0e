package posts

type Post struct {
	ID        int64
	Title     string
	Body      string
	Published bool
}

// WirePost is the public shape of a post. The published flag is only used
// to filter searches and is never sent to clients.
type WirePost struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

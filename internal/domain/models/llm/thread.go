package llm

import "time"

// ChatThread is a conversation owned by one user. Created lazily by the
// first chat request that names it.
type ChatThread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ThreadWithMessages is the thread GET payload: the thread's fields plus
// its messages (never null).
type ThreadWithMessages struct {
	ChatThread
	Messages []ChatMessage `json:"messages"`
}

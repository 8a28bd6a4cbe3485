package models

type Idea struct {
	Id          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Score       int       `json:"score"`
	CreatedAt   Timestamp `json:"created_at"`
}

type IdeaInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

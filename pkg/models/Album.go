package models

type Album struct {
	ID     uint   `json:"id" db:"id"`
	UserID uint   `json:"userId" db:"user_id"`
	Title  string `json:"title" db:"title"`
}

package models

const NoteColorDefault = "default"

type Note struct {
	ID        string `json:"id" bson:"id"`
	Title     string `json:"title" bson:"title"`
	Content   string `json:"content" bson:"content"`
	Color     string `json:"color" bson:"color"`
	CreatedBy string `json:"created_by" bson:"created_by"`
	CreatedAt string `json:"created_at" bson:"created_at"`
}

package models

// Report is one user's daily report. (UserID, Date) identifies it.
type Report struct {
	ID        string `json:"id" bson:"id"`
	Date      string `json:"date" bson:"date"`
	Content   string `json:"content" bson:"content"`
	UserID    string `json:"user_id" bson:"user_id"`
	CreatedAt string `json:"created_at" bson:"created_at"`
	UpdatedAt string `json:"updated_at" bson:"updated_at"`
}

type ReportView struct {
	Report
	User *User `json:"user"`
}

package models

import "time"

// Roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Collection names
const (
	CollectionUsers     = "users"
	CollectionTasks     = "tasks"
	CollectionNotes     = "notes"
	CollectionClients   = "clients"
	CollectionFolders   = "folders"
	CollectionDocuments = "documents"
	CollectionReports   = "reports"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DateLayout is the calendar-date format used by tasks and reports.
const DateLayout = "2006-01-02"

// Timestamp renders t as ISO-8601 text in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Now is the current time as a stored timestamp.
func Now() string {
	return Timestamp(time.Now())
}

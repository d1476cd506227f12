package models

// User is the public view of an account. It has no password field, so it can
// be returned from any endpoint as is.
type User struct {
	ID        string  `json:"id" bson:"id"`
	Email     string  `json:"email" bson:"email"`
	Name      string  `json:"name" bson:"name"`
	Phone     *string `json:"phone" bson:"phone"`
	Role      string  `json:"role" bson:"role"`
	CreatedAt string  `json:"created_at" bson:"created_at"`
}

// UserRecord is the stored form of a user, including the bcrypt hash.
type UserRecord struct {
	User         `bson:",inline"`
	PasswordHash string `json:"password_hash" bson:"password_hash"`
}

// Public strips the credential from the record.
func (r UserRecord) Public() User {
	return r.User
}

package models

// Client statuses are stored with their Romanian names.
const (
	ClientActive   = "activ"
	ClientInactive = "inactiv"
	ClientFinished = "finalizat"
)

type Client struct {
	ID            string   `json:"id" bson:"id"`
	CompanyName   string   `json:"company_name" bson:"company_name"`
	ProjectType   string   `json:"project_type" bson:"project_type"`
	Budget        float64  `json:"budget" bson:"budget"`
	MonthlyFee    *float64 `json:"monthly_fee" bson:"monthly_fee"`
	Status        string   `json:"status" bson:"status"`
	ContactPerson *string  `json:"contact_person" bson:"contact_person"`
	ContactEmail  *string  `json:"contact_email" bson:"contact_email"`
	ContactPhone  *string  `json:"contact_phone" bson:"contact_phone"`
	Notes         *string  `json:"notes" bson:"notes"`
	CreatedBy     string   `json:"created_by" bson:"created_by"`
	CreatedAt     string   `json:"created_at" bson:"created_at"`
}

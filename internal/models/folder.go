package models

type Folder struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	ClientID  string `json:"client_id" bson:"client_id"`
	CreatedBy string `json:"created_by" bson:"created_by"`
	CreatedAt string `json:"created_at" bson:"created_at"`
}

// FolderClient is the slice of the owning client shown next to a folder.
type FolderClient struct {
	CompanyName string `json:"company_name"`
}

type FolderView struct {
	Folder
	Client        *FolderClient `json:"client"`
	DocumentCount int64         `json:"document_count"`
}

// Document holds an uploaded file as base64 text. FileData is left out of
// list responses.
type Document struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	FileData   string `json:"file_data,omitempty" bson:"file_data,omitempty"`
	FileType   string `json:"file_type" bson:"file_type"`
	FolderID   string `json:"folder_id" bson:"folder_id"`
	UploadedBy string `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt  string `json:"created_at" bson:"created_at"`
}

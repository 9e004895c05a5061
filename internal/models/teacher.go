package models

// Teacher identifies the signed-in instructor that owns students and assignments.
type Teacher struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	IDNumber     string  `json:"id_number"`
	Organization *string `json:"organization,omitempty"`
}

// TeacherCredential is a directory entry used to resolve logins.
type TeacherCredential struct {
	Teacher
	IDNumberHash []byte `json:"-"`
}

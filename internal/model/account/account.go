package account

// TeacherAccount is keyed by display name in the teacher document.
type TeacherAccount struct {
	PasswordHash string `json:"password"`
	Subject      string `json:"subject"`
}

// ModuleAccount is keyed by subject code in the module document.
type ModuleAccount struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
}

package dto

// LoginForm is posted by both login pages.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// GrievanceForm is posted from a department page.
type GrievanceForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

// ResponseForm is posted from the respond page.
type ResponseForm struct {
	Response string `form:"response"`
}

package users

// User is the projection of a stored document exposed over HTTP. Fields
// missing from the document stay nil and render as JSON null.
type User struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Age   *int    `json:"age"`
	City  *string `json:"city"`
}

// UserInput is the request body for create and update. Age is a pointer so
// that a literal 0 passes the required check.
type UserInput struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required"`
	Age   *int    `json:"age" binding:"required"`
	City  *string `json:"city"`
}

// Validate checks the input shape for callers that bypass gin binding.
func (in *UserInput) Validate() error {
	if in == nil {
		return NewBadInputError("request body is required", nil)
	}
	if in.Name == "" {
		return NewBadInputError("name is required", nil)
	}
	if in.Email == "" {
		return NewBadInputError("email is required", nil)
	}
	if in.Age == nil {
		return NewBadInputError("age is required", nil)
	}
	return nil
}

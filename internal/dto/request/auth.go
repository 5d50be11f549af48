package request

type RegisterForm struct {
	Email           string `schema:"email" validate:"required,email"`
	Password        string `schema:"password" validate:"required,min=4,max=20" errorMsg:"Your password must be between 4 and 20 characters long."`
	ConfirmPassword string `schema:"confirm_password" validate:"required,eqfield=Password" errorMsg:"This password did not match the one in the password."`
}

type LoginForm struct {
	Email    string `schema:"email" validate:"required,email"`
	Password string `schema:"password" validate:"required"`
}

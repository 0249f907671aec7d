package schema

const (
	UserTypeMember = "member"
	UserTypeClient = "client"
)

type User struct {
	ID           string `json:"id"`
	Type         string `json:"type" schema:"enum=member|client" validate:"oneof=member client"`
	FullName     string `json:"fullName" validate:"notblank"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password"`
	Avatar       string `json:"avatar"`
	Bio          string `json:"bio" validate:"required_if=Type member"`
	Organisation string `json:"organisation" validate:"required_if=Type client"`
	ClientRole   string `json:"clientRole"`
	LastAccess   *Date  `json:"lastAccess,omitempty" schema:"optional"`
}

// EmptyUser is the template behind the create-user form.
func EmptyUser() User {
	return User{Type: UserTypeMember}
}

package dto

type RegisterInput struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"max=40"`
	Password   string `json:"password" validate:"required,min=8"`
	ReferredBy string `json:"referred_by,omitempty" validate:"omitempty,len=8"`
}

package dto

// AdminCreateUserRequest is the payload for admin/manager account creation.
// Admin accounts cannot be created through the API at all.
type AdminCreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=teacher student manager"`
}

// AdminUpdateUserRequest mutates an existing account. All fields optional.
type AdminUpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2"`
	Role     *string `json:"role" validate:"omitempty,oneof=teacher student manager"`
	Status   *string `json:"status" validate:"omitempty,oneof=active suspended"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// AdminUserFilter narrows the user listing.
type AdminUserFilter struct {
	Role   string `query:"role" validate:"omitempty,oneof=admin manager teacher student"`
	Status string `query:"status" validate:"omitempty,oneof=active suspended"`
	Search string `query:"search"`
}

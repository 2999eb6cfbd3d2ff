// AngelaMos | 2026
// dto.go

package user

// CreateUserRequest carries a plaintext password. Service.Create normalizes
// and hashes it before anything reaches the repository.
type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin accountant"`
}

package handler

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type onboardingRequest struct {
	CompanyName string   `json:"companyName" validate:"required"`
	Industry    string   `json:"industry"    validate:"required"`
	BrandTone   string   `json:"brandTone"   validate:"omitempty,oneof=Professional Friendly Casual Witty"`
	TeamSize    string   `json:"teamSize"`
	Platforms   []string `json:"platforms"   validate:"dive,oneof=twitter linkedin instagram facebook email blog"`
}

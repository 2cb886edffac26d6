package dto

type LoginRequest struct {
	Username string `json:"username" validate:"max=64"`
	Password string `json:"password" validate:"max=256"`
}

type LoginResponse struct {
	AccessToken string               `json:"access_token"`
	ExpiresIn   int64                `json:"expires_in"`
	State       *PortalStateResponse `json:"state"`
}

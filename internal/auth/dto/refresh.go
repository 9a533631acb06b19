package dto

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type LogoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

package dto

// CredencialesRequest is the login body. Users are created with cmd/seeduser.
type CredencialesRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

type RenovarTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ActorResponse identifies who will be recorded as the actor of withdrawals
// and journal entries made with the issued token.
type ActorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Rol      string `json:"rol"` // operador | administrador
}

// SesionResponse is returned by login and refresh. ExpiresIn is the access
// token lifetime in seconds.
type SesionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	Usuario      ActorResponse `json:"usuario"`
}

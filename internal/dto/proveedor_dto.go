package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=1,max=100"`
	Contacto  string `json:"contacto"  validate:"max=100"`
	Direccion string `json:"direccion" validate:"required,max=200"`
	Telefono  string `json:"telefono"  validate:"required,max=20"`
	Email     string `json:"email"     validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Contacto  string `json:"contacto"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
}

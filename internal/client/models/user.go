package models

// User mirrors the API's usuario resource. The backend serialises its model
// fields with capitalised Spanish names, so the JSON tags match the wire
// exactly rather than Go conventions.
type User struct {
	ID              int64  `json:"ID"`
	Name            string `json:"Nombre"`
	Email           string `json:"Email"`
	Age             int    `json:"Edad"`
	Role            string `json:"Rol"`
	ProfileImageURL string `json:"imagen_perfil,omitempty"`
}

// AuthResponse is the body of a successful POST /login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"usuario"`
}

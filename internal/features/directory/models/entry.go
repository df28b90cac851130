package models

// Entry is one record of the static user directory. Only ID and Handle are
// required; the contact fields exist for recipient resolution.
type Entry struct {
	ID     string `json:"id" yaml:"id"`
	Handle string `json:"handle" yaml:"handle"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone  string `json:"phone,omitempty" yaml:"phone,omitempty"`
	CPF    string `json:"cpf,omitempty" yaml:"cpf,omitempty"`
	Pix    string `json:"pix,omitempty" yaml:"pix,omitempty"`
}

// File is the on-disk layout: {"users": [...]}.
type File struct {
	Users []Entry `json:"users" yaml:"users"`
}

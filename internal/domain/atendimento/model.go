// Package atendimento handles patient intake.
package atendimento

import "github.com/labsuite/labsuite/internal/platform/registry"

// Patient is a registered patient. Code holds the record number and Label the
// full name.
type Patient struct {
	registry.Record
	CPF       string `json:"cpf"`
	BirthDate string `json:"birth_date"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	Sexo      string `json:"sexo,omitempty"`
}

func (p *Patient) Categories() map[string]string {
	return map[string]string{"sexo": p.Sexo}
}

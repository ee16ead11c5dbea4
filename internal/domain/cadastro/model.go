// Package cadastro holds the suite's master registries: procedures (serviços),
// professionals, specimen containers and payers (convênios).
package cadastro

import "github.com/labsuite/labsuite/internal/platform/registry"

// Procedure kinds.
const (
	TipoLaboratorial = "laboratorial"
	TipoImagem       = "imagem"
	TipoConsulta     = "consulta"
)

// Procedure is an orderable service: a lab exam, an imaging study or a visit.
type Procedure struct {
	registry.Record
	Tipo          string `json:"tipo"`
	Bancada       string `json:"bancada"`
	PriceCents    int64  `json:"price_cents"`
	ContainerCode string `json:"container_code,omitempty"`
}

func (p *Procedure) Categories() map[string]string {
	return map[string]string{"tipo": p.Tipo, "bancada": p.Bancada}
}

// Professional is a requesting or performing professional. Code holds the
// council registration number.
type Professional struct {
	registry.Record
	Especialidade string `json:"especialidade"`
	Conselho      string `json:"conselho"`
	UF            string `json:"uf"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

func (p *Professional) Categories() map[string]string {
	return map[string]string{"conselho": p.Conselho, "especialidade": p.Especialidade, "uf": p.UF}
}

// Container is a specimen tube or flask.
type Container struct {
	registry.Record
	Material string `json:"material"`
	VolumeML int    `json:"volume_ml"`
	Color    string `json:"color"`
}

func (c *Container) Categories() map[string]string {
	return map[string]string{"material": c.Material}
}

// Payer kinds.
const (
	PayerParticular = "particular"
	PayerPlano      = "plano"
	PayerSUS        = "sus"
)

// Payer is a health plan or other paying party. Code holds the ANS registry.
type Payer struct {
	registry.Record
	Tipo  string `json:"tipo"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (p *Payer) Categories() map[string]string {
	return map[string]string{"tipo": p.Tipo}
}

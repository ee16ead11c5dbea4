// Package navigation describes the module shells: each module's sidebar
// groups and links, and which link is active for a given route.
package navigation

import "strings"

type Link struct {
	Label  string `json:"label"`
	Route  string `json:"route"`
	Active bool   `json:"active"`
}

// Group is a collapsible sidebar section.
type Group struct {
	Label    string `json:"label"`
	Expanded bool   `json:"expanded"`
	Links    []Link `json:"links"`
}

type Menu struct {
	Module string  `json:"module"`
	Title  string  `json:"title"`
	Groups []Group `json:"groups"`
}

// Menus is the shell of every module, in display order.
var Menus = []Menu{
	{
		Module: "cadastro",
		Title:  "Cadastros",
		Groups: []Group{
			{Label: "Laboratório", Links: []Link{
				{Label: "Serviços", Route: "/cadastro/servicos"},
				{Label: "Recipientes", Route: "/cadastro/recipientes"},
			}},
			{Label: "Pessoas e convênios", Links: []Link{
				{Label: "Profissionais", Route: "/cadastro/profissionais"},
				{Label: "Convênios", Route: "/cadastro/convenios"},
			}},
		},
	},
	{
		Module: "atendimento",
		Title:  "Atendimento",
		Groups: []Group{
			{Label: "Recepção", Links: []Link{
				{Label: "Pacientes", Route: "/atendimento/pacientes"},
				{Label: "Novo paciente", Route: "/atendimento/pacientes/novo"},
			}},
		},
	},
	{
		Module: "financeiro",
		Title:  "Financeiro",
		Groups: []Group{
			{Label: "Faturamento", Links: []Link{
				{Label: "Guias", Route: "/financeiro/guias"},
				{Label: "Resumo", Route: "/financeiro/guias/resumo"},
				{Label: "Glosas", Route: "/financeiro/glosas"},
			}},
			{Label: "Tesouraria", Links: []Link{
				{Label: "Contas", Route: "/financeiro/contas"},
				{Label: "Transferências", Route: "/financeiro/contas/transferencias"},
			}},
		},
	},
	{
		Module: "laboratorio",
		Title:  "Laboratório",
		Groups: []Group{
			{Label: "Coleta", Links: []Link{
				{Label: "Amostras", Route: "/laboratorio/amostras"},
			}},
			{Label: "Processamento", Links: []Link{
				{Label: "Lotes", Route: "/laboratorio/lotes"},
			}},
		},
	},
	{
		Module: "transferencia",
		Title:  "Transferência",
		Groups: []Group{
			{Label: "Lotes", Links: []Link{
				{Label: "Lotes de transferência", Route: "/transferencia/lotes"},
				{Label: "Novo lote", Route: "/transferencia/lotes/novo"},
			}},
		},
	},
}

// Find returns the menu of a module by name.
func Find(module string) (Menu, bool) {
	for _, m := range Menus {
		if m.Module == module {
			return m.clone(), true
		}
	}
	return Menu{}, false
}

// Resolve returns the menu of the module owning path with the link whose
// route is the longest segment-aligned prefix of path marked active and its
// group expanded. Menus is never modified.
func Resolve(path string) (Menu, bool) {
	path = "/" + strings.Trim(path, "/")
	module, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	menu, ok := Find(module)
	if !ok {
		return Menu{}, false
	}

	gi, li, best := -1, -1, 0
	for i, g := range menu.Groups {
		for j, l := range g.Links {
			if hasRoutePrefix(path, l.Route) && len(l.Route) > best {
				gi, li, best = i, j, len(l.Route)
			}
		}
	}
	if gi >= 0 {
		menu.Groups[gi].Expanded = true
		menu.Groups[gi].Links[li].Active = true
	}
	return menu, true
}

func hasRoutePrefix(path, route string) bool {
	if !strings.HasPrefix(path, route) {
		return false
	}
	return len(path) == len(route) || path[len(route)] == '/'
}

func (m Menu) clone() Menu {
	groups := make([]Group, len(m.Groups))
	for i, g := range m.Groups {
		g.Links = append([]Link(nil), g.Links...)
		groups[i] = g
	}
	m.Groups = groups
	return m
}

package models

import "github.com/chrisdamba/freshsim/internal/inventory"

type Restaurant struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Town     string              `json:"town"`
	SlugName string              `json:"slug_name"`
	Ledgers  []*inventory.Ledger `json:"-"`
}

// Ledger returns the restaurant's ledger for an ingredient, or nil.
func (r *Restaurant) Ledger(ingredient string) *inventory.Ledger {
	for _, l := range r.Ledgers {
		if l.Name() == ingredient {
			return l
		}
	}
	return nil
}

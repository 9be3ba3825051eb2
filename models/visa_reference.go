package models

// VisaRow is one (category, subcategory, visa) triple of the reference
// table. Append-only domain data; a dossier's classification should match an
// existing triple but this is a soft constraint, not enforced at write time.
type VisaRow struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Visa        string `json:"visa"`
}

// Matches reports whether a dossier's classification corresponds to this row.
func (v *VisaRow) Matches(category, subcategory, visa string) bool {
	return v.Category == category && v.Subcategory == subcategory && v.Visa == visa
}

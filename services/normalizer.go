package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"visa_flow_app_go/models"
)

// dossierAliases maps each canonical field name to the historical column
// spellings that may still appear in imported spreadsheets or legacy
// documents, in priority order. Keys and aliases are in normalized-key form
// (lowercase, accents stripped, spaces/dashes as underscores), so e.g.
// "Acompte 1" and "acompte_1" land on the same entry. This is the single
// alias table of the system; no other component may rename fields.
var dossierAliases = map[string][]string{
	"dossier_number": {"numero_dossier", "numero", "no_dossier", "case_id"},
	"client_name":    {"nom_client", "client", "nom"},
	"category":       {"categorie"},
	"subcategory":    {"sous_categorie", "souscategorie"},
	"visa":           {"type_visa", "visa_type", "type_de_visa"},
	"created_date":   {"date_creation", "creation_date", "cree_le"},

	"sent":           {"envoye", "dossier_envoye"},
	"sent_date":      {"date_envoi", "envoye_le"},
	"accepted":       {"accepte", "dossier_accepte"},
	"accepted_date":  {"date_acceptation", "accepte_le"},
	"refused":        {"refuse", "dossier_refuse"},
	"refused_date":   {"date_refus", "refuse_le"},
	"cancelled":      {"annule", "canceled", "dossier_annule"},
	"cancelled_date": {"date_annulation", "annule_le"},
	"rfe":            {"rfe_recu", "rfe_received"},
	"rfe_date":       {"date_rfe", "rfe_recu_le"},

	"base_fee":   {"honoraires", "frais_de_base", "fees"},
	"other_fees": {"frais_divers", "autres_frais", "frais_annexes"},

	"installment_1":  {"acompte_1", "acompte1", "1er_versement"},
	"payment_date_1": {"date_acompte_1", "date_paiement_1"},
	"payment_mode_1": {"mode_paiement_1", "mode_acompte_1"},
	"installment_2":  {"acompte_2", "acompte2", "2eme_versement"},
	"payment_date_2": {"date_acompte_2", "date_paiement_2"},
	"payment_mode_2": {"mode_paiement_2", "mode_acompte_2"},
	"installment_3":  {"acompte_3", "acompte3", "3eme_versement"},
	"payment_date_3": {"date_acompte_3", "date_paiement_3"},
	"payment_mode_3": {"mode_paiement_3", "mode_acompte_3"},
	"installment_4":  {"acompte_4", "acompte4", "4eme_versement"},
	"payment_date_4": {"date_acompte_4", "date_paiement_4"},
	"payment_mode_4": {"mode_paiement_4", "mode_acompte_4"},

	"escrow_active":        {"sequestre", "sequestre_actif"},
	"escrow_to_be_claimed": {"sequestre_a_reclamer", "a_reclamer"},
	"escrow_claimed":       {"sequestre_reclame", "reclame"},
	// Legacy sheets recorded the claim date in a column conflated with the
	// RFE date; it maps here so imports land in the dedicated field.
	"claim_date": {"date_reclamation", "date_rfe_reclame"},

	"comment": {"commentaire", "remarques", "notes"},
}

// accentReplacer strips the accented characters seen in legacy French
// column names and values.
var accentReplacer = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "ç", "c",
	"î", "i", "ï", "i", "ô", "o",
	"ù", "u", "û", "u", "ü", "u",
	"É", "e", "È", "e", "Ê", "e",
	"À", "a", "Â", "a", "Ç", "c",
)

// NormalizeKey canonicalizes a raw field name: lowercase, accents stripped,
// spaces and dashes turned into underscores.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(strings.ToLower(key))
	key = accentReplacer.Replace(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	return key
}

// NormalizeDossier produces a fully-typed dossier from an arbitrary raw
// field map. It is total: unparseable or missing values become typed
// defaults (false, 0, ""), never errors. A record without a dossier number
// still normalizes; the caller decides whether it is usable for identity.
func NormalizeDossier(raw map[string]any) models.Dossier {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	// Resolution must be deterministic even when two raw spellings collapse
	// onto the same normalized key, so keys are visited in sorted order and
	// the first populated value wins.
	sort.Strings(keys)

	fields := make(map[string]any, len(raw))
	for _, key := range keys {
		normalized := NormalizeKey(key)
		if existing, ok := fields[normalized]; ok && !isEmptyValue(existing) {
			continue
		}
		fields[normalized] = raw[key]
	}

	return models.Dossier{
		DossierNumber: CoerceString(resolve(fields, "dossier_number")),
		ClientName:    CoerceString(resolve(fields, "client_name")),

		Category:    CoerceString(resolve(fields, "category")),
		Subcategory: CoerceString(resolve(fields, "subcategory")),
		Visa:        CoerceString(resolve(fields, "visa")),

		CreatedDate: CoerceDate(resolve(fields, "created_date")),

		Sent:          CoerceBool(resolve(fields, "sent")),
		SentDate:      CoerceDate(resolve(fields, "sent_date")),
		Accepted:      CoerceBool(resolve(fields, "accepted")),
		AcceptedDate:  CoerceDate(resolve(fields, "accepted_date")),
		Refused:       CoerceBool(resolve(fields, "refused")),
		RefusedDate:   CoerceDate(resolve(fields, "refused_date")),
		Cancelled:     CoerceBool(resolve(fields, "cancelled")),
		CancelledDate: CoerceDate(resolve(fields, "cancelled_date")),
		RFE:           CoerceBool(resolve(fields, "rfe")),
		RFEDate:       CoerceDate(resolve(fields, "rfe_date")),

		BaseFee:   CoerceAmount(resolve(fields, "base_fee")),
		OtherFees: CoerceAmount(resolve(fields, "other_fees")),

		Installment1: CoerceAmount(resolve(fields, "installment_1")),
		PaymentDate1: CoerceDate(resolve(fields, "payment_date_1")),
		PaymentMode1: CoerceString(resolve(fields, "payment_mode_1")),
		Installment2: CoerceAmount(resolve(fields, "installment_2")),
		PaymentDate2: CoerceDate(resolve(fields, "payment_date_2")),
		PaymentMode2: CoerceString(resolve(fields, "payment_mode_2")),
		Installment3: CoerceAmount(resolve(fields, "installment_3")),
		PaymentDate3: CoerceDate(resolve(fields, "payment_date_3")),
		PaymentMode3: CoerceString(resolve(fields, "payment_mode_3")),
		Installment4: CoerceAmount(resolve(fields, "installment_4")),
		PaymentDate4: CoerceDate(resolve(fields, "payment_date_4")),
		PaymentMode4: CoerceString(resolve(fields, "payment_mode_4")),

		EscrowActive:      CoerceBool(resolve(fields, "escrow_active")),
		EscrowToBeClaimed: CoerceBool(resolve(fields, "escrow_to_be_claimed")),
		EscrowClaimed:     CoerceBool(resolve(fields, "escrow_claimed")),
		ClaimDate:         CoerceDate(resolve(fields, "claim_date")),

		Comment: CoerceString(resolve(fields, "comment")),
	}
}

// resolve picks the value for a canonical field: the canonical key if
// populated, else the first populated alias in priority order. A populated
// alias always beats an empty canonical field.
func resolve(fields map[string]any, canonical string) any {
	if value, ok := fields[canonical]; ok && !isEmptyValue(value) {
		return value
	}
	for _, alias := range dossierAliases[canonical] {
		if value, ok := fields[alias]; ok && !isEmptyValue(value) {
			return value
		}
	}
	// Fall back to whatever the canonical key holds (possibly empty) so
	// explicit empty values still pass through coercion.
	return fields[canonical]
}

// isEmptyValue reports whether a raw value carries no information: nil,
// blank string, or the literal "None"/"nan" placeholders spreadsheets leave
// behind.
func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		trimmed := strings.ToLower(strings.TrimSpace(s))
		return trimmed == "" || trimmed == "none" || trimmed == "nan"
	}
	return false
}

// CoerceBool maps a raw value to a boolean. Recognized true tokens are
// true/1/yes/oui/vrai/y (case-insensitive, trimmed); everything else,
// including "None", empty and unparseable input, is false.
func CoerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "oui", "vrai", "y":
			return true
		}
		return false
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case float32:
		return v == 1
	}
	return false
}

// CoerceAmount maps a raw value to a non-negative monetary amount. Comma
// decimal separators and currency symbols are accepted; unparseable or
// negative input yields 0. Never errors.
func CoerceAmount(value any) float64 {
	amount := coerceFloat(value)
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0
	}
	return amount
}

func coerceFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.TrimLeft(s, "$€")
		s = strings.TrimRight(s, "$€")
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

// dateLayouts are the representations accepted for date coercion, tried in
// order. DD/MM/YYYY is the legacy spreadsheet convention of the office.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
}

// spreadsheet serials are counted in days from this epoch (1900 date system)
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// CoerceDate maps a raw value to an ISO YYYY-MM-DD string, or "" when no
// calendar date can be recovered. Time-of-day is discarded. Accepts
// time.Time values, common string layouts and spreadsheet serial numbers.
func CoerceDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02")
	case float64:
		return serialToDate(v)
	case float32:
		return serialToDate(float64(v))
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "nan") {
			return ""
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02")
			}
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialToDate(serial)
		}
	}
	return ""
}

// serialToDate converts a spreadsheet day serial to an ISO date. Values
// outside a plausible range (1901..2173) are rejected rather than mapped to
// nonsense dates.
func serialToDate(serial float64) string {
	if serial < 367 || serial > 100000 {
		return ""
	}
	t := serialEpoch.Add(time.Duration(int64(serial)) * 24 * time.Hour)
	return t.Format("2006-01-02")
}

// CoerceString trims whitespace and maps the literal "None"/"nan"
// placeholders to the empty string.
func CoerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.EqualFold(trimmed, "none") || strings.EqualFold(trimmed, "nan") {
			return ""
		}
		return trimmed
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

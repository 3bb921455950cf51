package bitrix

// MultiField is a Bitrix24 multi-value field entry such as a phone or email
type MultiField struct {
	Value     string `json:"VALUE"`
	ValueType string `json:"VALUE_TYPE"`
}

// LeadPayload is the crm.lead.add request body
type LeadPayload struct {
	Fields map[string]any    `json:"fields"`
	Params map[string]string `json:"params"`
}

// BuildLeadPayload maps a lead onto the portal's standard and custom fields
func BuildLeadPayload(cfg Config, lead Lead) LeadPayload {
	email := []MultiField{}
	if lead.Email != "" {
		email = append(email, MultiField{Value: lead.Email, ValueType: "WORK"})
	}

	comments := ""
	if lead.Cargo != "" {
		comments = "Груз: " + lead.Cargo
	}

	fields := map[string]any{
		"TITLE":    "Заявка с формы - " + lead.Name,
		"NAME":     lead.Name,
		"PHONE":    []MultiField{{Value: lead.Phone, ValueType: "WORK"}},
		"EMAIL":    email,
		"COMMENTS": comments,
	}
	if cfg.CountryField != "" {
		fields[cfg.CountryField] = lead.CountryID
	}
	if cfg.SourceField != "" {
		fields[cfg.SourceField] = cfg.SourceValue
	}

	return LeadPayload{
		Fields: fields,
		Params: map[string]string{"REGISTER_SONET_EVENT": "Y"},
	}
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CountrySelection is the country a lead ships from. Clients send either a
// JSON number (the CRM id) or a string (CRM id, ISO code or slug).
type CountrySelection string

// UnmarshalJSON accepts a string, a number or null
func (c *CountrySelection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CountrySelection(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("country must be a string or a number")
	}
	*c = CountrySelection(n.String())
	return nil
}

// MarshalJSON writes integer selections as numbers, everything else as strings
func (c CountrySelection) MarshalJSON() ([]byte, error) {
	if id, err := strconv.ParseInt(string(c), 10, 64); err == nil {
		return []byte(strconv.FormatInt(id, 10)), nil
	}
	return json.Marshal(string(c))
}

// SubmitLeadRequest is the body of POST /api/lead
type SubmitLeadRequest struct {
	Name           string           `json:"name" binding:"required,max=200"`
	Phone          string           `json:"phone" binding:"required,max=32"`
	Email          string           `json:"email" binding:"omitempty,max=254"`
	Country        CountrySelection `json:"country" binding:"required,max=64"`
	Cargo          string           `json:"cargo" binding:"omitempty,max=2000"`
	IdempotencyKey string           `json:"idempotency_key,omitempty" binding:"omitempty,max=128"`
}

// SubmitLeadResponse is returned for every outcome of POST /api/lead
type SubmitLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  int64  `json:"leadId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LeadRecord is the validated lead forwarded to the CRM. It is never stored locally.
type LeadRecord struct {
	Name      string
	Phone     string // digits only
	Email     string
	CountryID int64
	Cargo     string
}

// Lead endpoint messages shown to site visitors
const (
	MsgRequiredFields = "Не заполнены обязательные поля"
	MsgInvalidPhone   = "Введите корректный номер телефона"
	MsgInvalidEmail   = "Введите корректный email"
	MsgInvalidCountry = "Выберите страну отправления"
	MsgCRMRejected    = "Ошибка создания лида в Bitrix24"
	MsgServerError    = "Ошибка сервера"
	MsgDuplicate      = "Заявка уже отправляется, подождите"
	MsgInvalidRequest = "Некорректный формат запроса"
)

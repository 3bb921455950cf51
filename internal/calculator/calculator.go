// Package calculator holds the customs estimate offered next to the lead
// forms and the cargo descriptions those forms send with a lead.
package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// VATRate is the import VAT applied to cost plus duty
	VATRate = 0.20

	// CustomsFee is the flat clearance fee added to every estimate
	CustomsFee = 750.0
)

var (
	ErrInvalidCost = errors.New("goods cost must be positive")
	ErrInvalidRate = errors.New("duty rate is not offered")
)

// Tariff is a duty rate offered in the calculator with the goods it usually applies to
type Tariff struct {
	Rate  float64 `json:"rate"`
	Label string  `json:"label"`
}

var tariffs = []Tariff{
	{Rate: 0, Label: "Электроника"},
	{Rate: 5, Label: "Инструменты"},
	{Rate: 10, Label: "Текстиль"},
	{Rate: 12.5, Label: "Обувь кожаная"},
	{Rate: 15, Label: "Одежда"},
	{Rate: 20, Label: "Мебель"},
}

// Tariffs returns the offered duty rates in ascending order
func Tariffs() []Tariff {
	out := make([]Tariff, len(tariffs))
	copy(out, tariffs)
	return out
}

// IsOfferedRate reports whether rate is one of the calculator tariffs
func IsOfferedRate(rate float64) bool {
	for _, t := range tariffs {
		if t.Rate == rate {
			return true
		}
	}
	return false
}

// CustomsEstimate is the breakdown of import payments, in the currency of Cost
type CustomsEstimate struct {
	Cost  float64 `json:"cost"`
	Rate  float64 `json:"rate"`
	Duty  float64 `json:"duty"`
	VAT   float64 `json:"vat"`
	Fee   float64 `json:"fee"`
	Total float64 `json:"total"`
}

// Customs estimates duty, VAT and fees for goods worth cost at the given duty rate in percent
func Customs(cost, rate float64) (*CustomsEstimate, error) {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		return nil, ErrInvalidCost
	}
	if !IsOfferedRate(rate) {
		return nil, ErrInvalidRate
	}

	duty := cost * rate / 100
	vat := (cost + duty) * VATRate
	total := duty + vat + CustomsFee

	return &CustomsEstimate{
		Cost:  cost,
		Rate:  rate,
		Duty:  roundCents(duty),
		VAT:   roundCents(vat),
		Fee:   CustomsFee,
		Total: roundCents(total),
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Transport modes offered by the delivery calculator
var transportLabels = map[string]string{
	"air":  "Авиа",
	"sea":  "Море",
	"rail": "ЖД",
	"auto": "Авто",
}

const (
	unknownCountry   = "Не указана"
	unknownTransport = "Не указан"
)

// TransportLabel returns the display name of a transport mode
func TransportLabel(mode string) (string, bool) {
	label, ok := transportLabels[strings.ToLower(strings.TrimSpace(mode))]
	return label, ok
}

// DeliveryRequest is what the delivery calculator form collects
type DeliveryRequest struct {
	CountryName string
	Transport   string
	WeightKg    float64
	VolumeM3    float64
}

// DescribeDelivery renders the cargo field sent with a delivery calculation lead,
// e.g. "Расчет доставки: Страна: Китай, Транспорт: Авиа, Вес: 120кг, Объем: 1.5м³"
func DescribeDelivery(req DeliveryRequest) string {
	country := strings.TrimSpace(req.CountryName)
	if country == "" {
		country = unknownCountry
	}
	transport, ok := TransportLabel(req.Transport)
	if !ok {
		transport = unknownTransport
	}

	var b strings.Builder
	b.WriteString("Расчет доставки: Страна: ")
	b.WriteString(country)
	b.WriteString(", Транспорт: ")
	b.WriteString(transport)
	b.WriteString(", Вес: ")
	b.WriteString(formatNumber(req.WeightKg))
	b.WriteString("кг")
	if req.VolumeM3 > 0 {
		b.WriteString(", Объем: ")
		b.WriteString(formatNumber(req.VolumeM3))
		b.WriteString("м³")
	}
	return b.String()
}

// CustomsRequest is what the customs calculator form collects
type CustomsRequest struct {
	Cost        float64
	Rate        float64
	Estimate    *CustomsEstimate
	Description string
}

// DescribeCustoms renders the cargo field sent with a customs calculation lead
func DescribeCustoms(req CustomsRequest) string {
	var b strings.Builder
	b.WriteString("Расчет таможни: Стоимость товара: $")
	b.WriteString(formatNumber(req.Cost))
	b.WriteString(", Ставка пошлины: ")
	b.WriteString(formatNumber(req.Rate))
	b.WriteString("%")
	if req.Estimate != nil {
		b.WriteString(", Итого платежей: ")
		b.WriteString(FormatUSD(req.Estimate.Total))
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		b.WriteString(", Описание: ")
		b.WriteString(d)
	}
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const nbsp = "\u00a0"

// FormatUSD renders whole dollars the ru-RU way: "12 345 $"
func FormatUSD(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(nbsp)
		}
		b.WriteRune(r)
	}
	b.WriteString(nbsp + "$")
	return b.String()
}

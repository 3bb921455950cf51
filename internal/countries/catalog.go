// Package countries holds the origin-country catalog shared by lead forms and the lead endpoint.
package countries

import (
	"sort"
	"strconv"
	"strings"
)

// Country is one origin country offered in lead forms
type Country struct {
	Code  string `json:"code"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	CRMID int64  `json:"crm_id"`
}

// Catalog maps country codes, slugs and CRM ids to countries. It is immutable after construction.
type Catalog struct {
	ordered []Country
	byCode  map[string]Country
	bySlug  map[string]Country
	byID    map[int64]Country
}

// defaultCountries lists origins in the order forms show them; ids are the CRM list values
var defaultCountries = []Country{
	{Code: "CN", Slug: "china", Name: "Китай", CRMID: 1456},
	{Code: "TR", Slug: "turkey", Name: "Турция", CRMID: 686},
	{Code: "AE", Slug: "uae", Name: "ОАЭ", CRMID: 518},
	{Code: "IN", Slug: "india", Name: "Индия", CRMID: 1588},
	{Code: "JP", Slug: "japan", Name: "Япония", CRMID: 538},
	{Code: "TH", Slug: "thailand", Name: "Таиланд", CRMID: 2006},
	{Code: "BD", Slug: "bangladesh", Name: "Бангладеш", CRMID: 1578},
	{Code: "VN", Slug: "vietnam", Name: "Вьетнам", CRMID: 516},
	{Code: "IR", Slug: "iran", Name: "Иран", CRMID: 520},
	{Code: "KR", Slug: "korea", Name: "Корея", CRMID: 1406},
	{Code: "MY", Slug: "malaysia", Name: "Малайзия", CRMID: 2018},
	{Code: "PH", Slug: "philippines", Name: "Филиппины", CRMID: 1568},
	{Code: "ID", Slug: "indonesia", Name: "Индонезия", CRMID: 526},
	{Code: "MM", Slug: "myanmar", Name: "Мьянма", CRMID: 532},
	{Code: "TW", Slug: "taiwan", Name: "Тайвань", CRMID: 536},
	{Code: "AU", Slug: "australia", Name: "Австралия", CRMID: 530},
	{Code: "NZ", Slug: "new-zealand", Name: "Новая Зеландия", CRMID: 524},
	{Code: "EG", Slug: "egypt", Name: "Египет", CRMID: 2020},
	{Code: "RS", Slug: "serbia", Name: "Сербия", CRMID: 2022},
}

var defaultCatalog = New(defaultCountries)

// Default returns the built-in catalog
func Default() *Catalog {
	return defaultCatalog
}

// New builds a catalog. Later entries never override earlier ones.
func New(list []Country) *Catalog {
	c := &Catalog{
		ordered: make([]Country, 0, len(list)),
		byCode:  make(map[string]Country, len(list)),
		bySlug:  make(map[string]Country, len(list)),
		byID:    make(map[int64]Country, len(list)),
	}
	for _, country := range list {
		code := strings.ToUpper(country.Code)
		if _, dup := c.byCode[code]; dup {
			continue
		}
		country.Code = code
		c.ordered = append(c.ordered, country)
		c.byCode[code] = country
		if country.Slug != "" {
			c.bySlug[strings.ToLower(country.Slug)] = country
		}
		if country.CRMID > 0 {
			c.byID[country.CRMID] = country
		}
	}
	return c
}

// All returns the countries in display order
func (c *Catalog) All() []Country {
	out := make([]Country, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// SortedByName returns the countries ordered by their Russian name
func (c *Catalog) SortedByName() []Country {
	out := c.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a country by ISO code, slug or CRM id
func (c *Catalog) Lookup(selection string) (Country, bool) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return Country{}, false
	}
	if country, ok := c.byCode[strings.ToUpper(selection)]; ok {
		return country, true
	}
	if country, ok := c.bySlug[strings.ToLower(selection)]; ok {
		return country, true
	}
	if id, err := strconv.ParseInt(selection, 10, 64); err == nil {
		country, ok := c.byID[id]
		return country, ok
	}
	return Country{}, false
}

// ByID finds a country by its CRM id
func (c *Catalog) ByID(id int64) (Country, bool) {
	country, ok := c.byID[id]
	return country, ok
}

// ResolveID turns a form selection into the CRM country id.
// Positive integers pass through even when the catalog does not list them,
// so the CRM stays the source of truth for newly added countries.
func (c *Catalog) ResolveID(selection string) (int64, bool) {
	selection = strings.TrimSpace(selection)
	if id, err := strconv.ParseInt(selection, 10, 64); err == nil {
		return id, id > 0
	}
	if country, ok := c.Lookup(selection); ok {
		return country.CRMID, true
	}
	return 0, false
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	cerr "crosscheck/internal/errors"
)

// Core record models. Documents and reference rows are owned by the stores in
// internal/adapters; the validators only read them.

type DocumentType string

const (
	DocInvoice             DocumentType = "invoice"
	DocPackingList         DocumentType = "packing_list"
	DocBillOfLading        DocumentType = "bill_of_lading"
	DocCertificateOfOrigin DocumentType = "certificate_of_origin"
)

const DefaultCurrency = "USD"

// Document is a trade document. Which optional fields are meaningful depends on
// Type: quantities and prices on invoices and packing lists, vessel and ports on
// bills of lading. Fields the model does not name land in Extra.
type Document struct {
	ID              string
	Type            DocumentType
	ShipmentID      string
	Description     *string
	HSCode          *string
	Quantity        *float64
	UnitPrice       *float64
	TotalValue      *float64
	Currency        *string
	OriginCountry   *string
	SupplierName    *string
	SupplierAddress *string
	Consignee       *string
	Vessel          *string
	OriginPort      *string
	DestinationPort *string
	Routing         []string
	DepartureDate   *string
	Language        *string
	Extra           map[string]any
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Document{}
	for key, value := range raw {
		if err := d.set(key, value); err != nil {
			return fmt.Errorf("document field %q: %w", key, err)
		}
	}
	return nil
}

func (d *Document) set(key string, value json.RawMessage) error {
	if isNull(value) {
		return nil
	}
	switch key {
	case "id":
		d.ID = rawText(value)
	case "type":
		d.Type = DocumentType(strings.TrimSpace(rawText(value)))
	case "shipment_id":
		d.ShipmentID = rawText(value)
	case "quantity", "unit_price", "total_value":
		n, ok := parseNumber(value)
		if !ok {
			return d.putExtra(key, value)
		}
		switch key {
		case "quantity":
			d.Quantity = &n
		case "unit_price":
			d.UnitPrice = &n
		default:
			d.TotalValue = &n
		}
	case "routing":
		var stops []string
		if err := json.Unmarshal(value, &stops); err != nil {
			return d.putExtra(key, value)
		}
		d.Routing = stops
	default:
		target := d.textField(key)
		if target == nil {
			return d.putExtra(key, value)
		}
		s := rawText(value)
		*target = &s
	}
	return nil
}

func (d *Document) textField(key string) **string {
	switch key {
	case "description":
		return &d.Description
	case "hs_code":
		return &d.HSCode
	case "currency":
		return &d.Currency
	case "origin_country":
		return &d.OriginCountry
	case "supplier_name":
		return &d.SupplierName
	case "supplier_address":
		return &d.SupplierAddress
	case "consignee":
		return &d.Consignee
	case "vessel":
		return &d.Vessel
	case "origin_port":
		return &d.OriginPort
	case "destination_port":
		return &d.DestinationPort
	case "departure_date":
		return &d.DepartureDate
	case "language":
		return &d.Language
	}
	return nil
}

func (d *Document) putExtra(key string, value json.RawMessage) error {
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return err
	}
	if d.Extra == nil {
		d.Extra = map[string]any{}
	}
	d.Extra[key] = v
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	for key, v := range d.Extra {
		out[key] = v
	}
	out["id"] = d.ID
	out["type"] = d.Type
	out["shipment_id"] = d.ShipmentID
	for _, key := range textFieldNames {
		if p := *(&d).textField(key); p != nil {
			out[key] = *p
		}
	}
	if d.Quantity != nil {
		out["quantity"] = *d.Quantity
	}
	if d.UnitPrice != nil {
		out["unit_price"] = *d.UnitPrice
	}
	if d.TotalValue != nil {
		out["total_value"] = *d.TotalValue
	}
	if d.Routing != nil {
		out["routing"] = d.Routing
	}
	return json.Marshal(out)
}

var textFieldNames = []string{
	"description", "hs_code", "currency", "origin_country", "supplier_name", "supplier_address",
	"consignee", "vessel", "origin_port", "destination_port", "departure_date", "language",
}

// Field returns the textual value of a named field, typed or extra.
func (d Document) Field(name string) (string, bool) {
	switch name {
	case "id":
		return d.ID, d.ID != ""
	case "type":
		return string(d.Type), d.Type != ""
	case "shipment_id":
		return d.ShipmentID, d.ShipmentID != ""
	case "quantity", "unit_price", "total_value":
		if n := d.number(name); n != nil {
			return strconv.FormatFloat(*n, 'f', -1, 64), true
		}
	case "routing":
		if d.Routing != nil {
			return strings.Join(d.Routing, " -> "), true
		}
	default:
		if p := d.textField(name); p != nil && *p != nil {
			return **p, true
		}
	}
	v, ok := d.Extra[name]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Number returns a numeric field. A present but non-numeric value is an
// invalid_input error rather than an absent field.
func (d Document) Number(name string) (float64, bool, error) {
	if n := d.number(name); n != nil {
		if !finite(*n) {
			return 0, true, nonNumeric(d.ID, name, *n)
		}
		return *n, true, nil
	}
	v, ok := d.Extra[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch t := v.(type) {
	case float64:
		if finite(t) {
			return t, true, nil
		}
	case string:
		if n, ok := parseText(t); ok {
			return n, true, nil
		}
	}
	return 0, true, nonNumeric(d.ID, name, v)
}

func nonNumeric(id, name string, v any) error {
	return cerr.New(cerr.KindInvalidInput, "non_numeric_field", "field %q on %s is not numeric: %v", name, id, v)
}

// finite rejects NaN and the infinities, which ParseFloat accepts as text.
func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func parseText(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || !finite(n) {
		return 0, false
	}
	return n, true
}

func (d Document) number(name string) *float64 {
	switch name {
	case "quantity":
		return d.Quantity
	case "unit_price":
		return d.UnitPrice
	case "total_value":
		return d.TotalValue
	}
	return nil
}

func (d Document) CurrencyOrDefault() string {
	if d.Currency == nil || strings.TrimSpace(*d.Currency) == "" {
		return DefaultCurrency
	}
	return strings.ToUpper(strings.TrimSpace(*d.Currency))
}

// Text dereferences an optional field.
func Text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	return parseText(s)
}

// FlexString accepts a JSON string or number, e.g. duty rates written as "2.5%" or 0.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = ""
		return nil
	}
	*f = FlexString(rawText(data))
	return nil
}

type Certificate struct {
	ID         string `json:"cert_id"`
	ShipmentID string `json:"shipment_id"`
	Type       string `json:"type"`
	Valid      bool   `json:"valid"`
	Issuer     string `json:"issuer,omitempty"`
	IssueDate  string `json:"issue_date,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

var certificateAliases = map[string]string{
	"fcc":    "fcc_certification",
	"origin": "certificate_of_origin",
	"ul":     "ul_certification",
}

// CertificateType resolves short names like "fcc" to stored certificate types.
func CertificateType(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if full, ok := certificateAliases[key]; ok {
		return full
	}
	return key
}

type HSCodeEntry struct {
	Code          string         `json:"code"`
	Description   string         `json:"description"`
	CommonNames   []string       `json:"common_names"`
	DutyRate      FlexString     `json:"duty_rate"`
	Notes         string         `json:"notes,omitempty"`
	Subcategories map[string]any `json:"subcategories,omitempty"`
}

type CBPRuling struct {
	RulingNumber string   `json:"ruling_number,omitempty"`
	Keywords     []string `json:"keywords"`
	Guidance     string   `json:"guidance"`
}

type RegulatoryRule struct {
	RegulationName  string   `json:"regulation_name"`
	ProductKeywords []string `json:"product_keywords"`
	HSCodes         []string `json:"hs_codes"`
	Requirement     string   `json:"requirement"`
	Mandatory       bool     `json:"mandatory"`
}

type RestrictionRule struct {
	Keywords    []string `json:"keywords"`
	Restriction string   `json:"restriction"`
	Penalty     string   `json:"penalty,omitempty"`
}

type SupplierIssue struct {
	Issue       string `json:"issue"`
	Occurrences int    `json:"occurrences"`
}

type SupplierRecord struct {
	Name           string          `json:"name"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	Country        string          `json:"country"`
	City           string          `json:"city"`
	TotalShipments int             `json:"total_shipments"`
	CustomsHolds   int             `json:"customs_holds"`
	HoldRate       float64         `json:"hold_rate"`
	RiskLevel      string          `json:"risk_level,omitempty"`
	CommonIssues   []SupplierIssue `json:"common_issues,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Direct      bool   `json:"direct"`
}

type VesselSchedule struct {
	VesselName    string  `json:"vessel_name"`
	Carrier       string  `json:"carrier"`
	VesselType    string  `json:"type,omitempty"`
	RegularRoutes []Route `json:"regular_routes"`
}

type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

type MarketPriceEntry struct {
	ProductKey  string     `json:"product_key"`
	Category    string     `json:"category"`
	PriceRange  PriceRange `json:"typical_price_range"`
	Currency    string     `json:"currency"`
	LastUpdated string     `json:"last_updated,omitempty"`
}

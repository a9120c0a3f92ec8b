package memory

import "crosscheck/internal/domain"

// FixtureShipment is the shipment carried by Fixture.
const FixtureShipment = "SHIP-2025-001"

func ptr[T any](v T) *T { return &v }

// Fixture is a small but complete data set: one laptop shipment from Shenzhen
// with a short packing list and a detour through Ho Chi Minh City, plus the
// reference rows its checks need.
func Fixture() Data {
	return Data{
		Documents: []domain.Document{
			{
				ID:              "INV-001",
				Type:            domain.DocInvoice,
				ShipmentID:      FixtureShipment,
				Description:     ptr("Laptop Computer"),
				HSCode:          ptr("8471.30.0100"),
				Quantity:        ptr(100.0),
				UnitPrice:       ptr(1250.0),
				TotalValue:      ptr(125000.0),
				Currency:        ptr("USD"),
				OriginCountry:   ptr("China"),
				SupplierName:    ptr("Shenzhen Electronics Co"),
				SupplierAddress: ptr("Shenzhen, Guangdong, China"),
				Consignee:       ptr("ACME Imports LLC"),
			},
			{
				ID:            "PL-001",
				Type:          domain.DocPackingList,
				ShipmentID:    FixtureShipment,
				Description:   ptr("Laptop Computer"),
				Quantity:      ptr(95.0),
				TotalValue:    ptr(125000.0),
				Currency:      ptr("USD"),
				OriginCountry: ptr("China"),
				Consignee:     ptr("ACME Imports LLC"),
				Language:      ptr("ZH"),
				Extra:         map[string]any{"description_cn": "笔记本电脑"},
			},
			{
				ID:              "BOL-001",
				Type:            domain.DocBillOfLading,
				ShipmentID:      FixtureShipment,
				Description:     ptr("Laptop Computer"),
				TotalValue:      ptr(125000.0),
				Currency:        ptr("USD"),
				OriginCountry:   ptr("China"),
				Consignee:       ptr("ACME Imports LLC"),
				Vessel:          ptr("COSCO SHIPPING ARIES"),
				OriginPort:      ptr("Shenzhen"),
				DestinationPort: ptr("Los Angeles"),
				Routing:         []string{"Shenzhen", "Ho Chi Minh City", "Los Angeles"},
				DepartureDate:   ptr("2025-01-15"),
			},
			{
				ID:            "COO-001",
				Type:          domain.DocCertificateOfOrigin,
				ShipmentID:    FixtureShipment,
				OriginCountry: ptr("China"),
				SupplierName:  ptr("Shenzhen Electronics Co"),
			},
		},
		HSCodes: []domain.HSCodeEntry{
			{
				Code:        "8471.30",
				Description: "Portable automatic data processing machines, weighing not more than 10 kg",
				CommonNames: []string{"laptop", "notebook computer", "portable computer"},
				DutyRate:    "Free",
			},
			{
				Code:        "8471.41",
				Description: "Other automatic data processing machines comprising a CPU and input/output unit",
				CommonNames: []string{"desktop computer", "workstation"},
				DutyRate:    "Free",
			},
			{
				Code:        "8518.30",
				Description: "Headphones and earphones",
				CommonNames: []string{"headphones", "earbuds", "headset"},
				DutyRate:    "4.9%",
			},
		},
		Rulings: []domain.CBPRuling{
			{RulingNumber: "N312345", Keywords: []string{"laptop", "detachable keyboard"}, Guidance: "Laptops with detachable keyboards classify under 8471.30"},
			{RulingNumber: "N298765", Keywords: []string{"headphones", "bluetooth"}, Guidance: "Bluetooth headphones classify under 8518.30"},
		},
		Regulations: []domain.RegulatoryRule{
			{
				RegulationName:  "FCC",
				ProductKeywords: []string{"wireless", "bluetooth", "wifi", "laptop"},
				HSCodes:         []string{"8471.30", "8517"},
				Requirement:     "FCC Part 15 equipment authorization",
				Mandatory:       true,
			},
			{
				RegulationName:  "UL",
				ProductKeywords: []string{"battery", "charger", "power supply"},
				Requirement:     "UL safety listing for mains-powered equipment",
			},
		},
		Restrictions: []domain.RestrictionRule{
			{Keywords: []string{"ivory", "rhino horn"}, Restriction: "Endangered species products (CITES)", Penalty: "Seizure and criminal penalties"},
			{Keywords: []string{"counterfeit", "replica"}, Restriction: "Intellectual property violations", Penalty: "Seizure and fines up to the MSRP of genuine goods"},
		},
		Certificates: []domain.Certificate{
			{ID: "FCC-2025-001", ShipmentID: FixtureShipment, Type: "fcc_certification", Valid: true, Issuer: "FCC", ExpiryDate: "2027-06-30"},
			{ID: "COO-CERT-001", ShipmentID: FixtureShipment, Type: "certificate_of_origin", Valid: true, Issuer: "CCPIT Shenzhen"},
		},
		Suppliers: []domain.SupplierRecord{
			{
				Name:           "Shenzhen Electronics Co",
				SupplierID:     "SUP-001",
				Country:        "China",
				City:           "Shenzhen",
				TotalShipments: 48,
				CustomsHolds:   9,
				HoldRate:       0.1875,
				RiskLevel:      "MEDIUM",
				CommonIssues: []domain.SupplierIssue{
					{Issue: "Missing FCC documentation", Occurrences: 3},
					{Issue: "Quantity discrepancies between invoice and packing list", Occurrences: 5},
				},
			},
		},
		Vessels: []domain.VesselSchedule{
			{
				VesselName: "COSCO SHIPPING ARIES",
				Carrier:    "COSCO",
				VesselType: "container",
				RegularRoutes: []domain.Route{
					{Origin: "Shenzhen (Yantian)", Destination: "Los Angeles", Direct: true},
					{Origin: "Shanghai", Destination: "Long Beach", Direct: true},
				},
			},
		},
		MarketPrices: []domain.MarketPriceEntry{
			{ProductKey: "Laptop Computer", Category: "electronics", PriceRange: domain.PriceRange{Min: 800, Max: 2000, Average: 1200}, Currency: "USD", LastUpdated: "2025-01-01"},
			{ProductKey: "Wireless Headphones", Category: "audio", PriceRange: domain.PriceRange{Min: 20, Max: 150, Average: 60}, Currency: "USD", LastUpdated: "2025-01-01"},
		},
	}
}

func NewFixture() *Store {
	return New(Fixture())
}

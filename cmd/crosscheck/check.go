package main

import (
	"context"
	"fmt"
	"strings"

	"crosscheck/internal/domain"
	checksvc "crosscheck/internal/services/checks"
)

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runCheck(arguments []string) int {
	if len(arguments) == 0 || strings.HasPrefix(arguments[0], "-") {
		printUsage()
		return exitInvalidInput
	}
	name := arguments[0]
	if name == "list" {
		for _, n := range checksvc.Names() {
			fmt.Println(n)
		}
		return exitOK
	}

	fs := newFlagSet("check")
	var sf storeFlags
	sf.register(fs)
	var req checksvc.Request
	var docs string
	var jsonOutput bool
	fs.StringVar(&req.ShipmentID, "shipment", "", "shipment id")
	fs.StringVar(&docs, "docs", "", "comma-separated document ids")
	fs.StringVar(&req.Field, "field", "", "document field to compare")
	fs.StringVar(&req.InvoiceID, "invoice", "", "invoice document id")
	fs.StringVar(&req.PackingListID, "packing-list", "", "packing list document id")
	fs.StringVar(&req.BillOfLadingID, "bol", "", "bill of lading document id")
	fs.StringVar(&req.Description, "description", "", "declared product description")
	fs.StringVar(&req.ForeignText, "foreign", "", "foreign-language description")
	fs.StringVar(&req.SourceLanguage, "source-lang", checksvc.DefaultSourceLanguage, "language of --foreign")
	fs.StringVar(&req.Product, "product", "", "product name for market price checks")
	fs.Float64Var(&req.UnitPrice, "unit-price", 0, "unit price for market price checks")
	fs.StringVar(&req.HSCode, "hs-code", "", "declared HS code")
	fs.StringVar(&req.SuggestedCode, "suggested", "", "suggested HS code")
	fs.StringVar(&req.CertType, "cert-type", "", "certificate type (fcc, ul, origin, ...)")
	fs.StringVar(&req.SupplierName, "supplier", "", "supplier name")
	fs.StringVar(&req.Origin, "origin", "", "declared origin country")
	fs.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	if err := fs.Parse(arguments[1:]); err != nil {
		return fail(jsonOutput, "check", usageError("%v", err))
	}
	req.DocumentIDs = splitList(docs)

	ctx := context.Background()
	svc, err := sf.open(ctx)
	if err != nil {
		return fail(jsonOutput, "check", err)
	}
	defer svc.close()
	f, err := svc.checks.Run(ctx, name, req)
	if err != nil {
		return fail(jsonOutput, "check", err)
	}
	code := findingExitCode(f)
	if jsonOutput {
		return writeJSON(f, code)
	}
	printFinding(f)
	return code
}

func findingExitCode(f domain.Finding) int {
	switch {
	case !f.IsIssue():
		return exitOK
	case f.Risk.Effective() == domain.RiskCritical:
		return exitBlocked
	}
	return exitReviewRequired
}

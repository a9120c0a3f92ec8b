package main

import (
	"context"

	"crosscheck/internal/services/lookup"
)

// runLookup prints raw reference records as JSON.
func runLookup(arguments []string) int {
	if len(arguments) < 2 {
		printUsage()
		return exitInvalidInput
	}
	kind, query := arguments[0], arguments[1]
	fs := newFlagSet("lookup")
	var sf storeFlags
	sf.register(fs)
	if err := fs.Parse(arguments[2:]); err != nil {
		return fail(true, "lookup", usageError("%v", err))
	}
	if fs.NArg() > 0 {
		return fail(true, "lookup", usageError("unexpected arguments: %v", fs.Args()))
	}

	ctx := context.Background()
	svc, err := sf.open(ctx)
	if err != nil {
		return fail(true, "lookup", err)
	}
	defer svc.close()
	out, err := find(ctx, svc.lookup, kind, query)
	if err != nil {
		return fail(true, "lookup", err)
	}
	return writeJSON(out, exitOK)
}

// find runs one lookup. Rulings take a comma-separated keyword list.
func find(ctx context.Context, l *lookup.Service, kind, query string) (any, error) {
	switch kind {
	case "hs-codes":
		return l.HSCodes(ctx, query)
	case "rulings":
		return l.CBPRulings(ctx, splitList(query))
	case "market-price":
		return l.MarketPrice(ctx, query)
	case "supplier":
		return l.Supplier(ctx, query)
	case "vessel":
		return l.Vessel(ctx, query)
	}
	return nil, usageError("unknown lookup %q (hs-codes, rulings, market-price, supplier, vessel)", kind)
}

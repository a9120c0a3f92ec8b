package main

import (
	"context"
	"flag"

	"crosscheck/internal/adapters/memory"
	"crosscheck/internal/policy"
	"crosscheck/internal/ports"
)

func runAssess(arguments []string) int {
	fs := newFlagSet("assess")
	var sf storeFlags
	sf.register(fs)
	var shipmentID string
	var value float64
	var delayDays int
	var jsonOutput, helpFlag bool
	fs.StringVar(&shipmentID, "shipment", "", "shipment id")
	fs.Float64Var(&value, "value", 0, "shipment value; defaults to the invoice total")
	fs.IntVar(&delayDays, "delay-days", 0, "expected delay in days for the cost estimate")
	fs.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	fs.BoolVar(&helpFlag, "help", false, "show help")

	if err := fs.Parse(arguments); err != nil {
		return fail(jsonOutput, "assess", usageError("%v", err))
	}
	if helpFlag {
		printUsage()
		return exitOK
	}
	if shipmentID == "" && fs.NArg() == 1 {
		shipmentID = fs.Arg(0)
	}
	if shipmentID == "" {
		return fail(jsonOutput, "assess", usageError("--shipment is required"))
	}
	if value < 0 || delayDays < 0 {
		return fail(jsonOutput, "assess", usageError("--value and --delay-days must not be negative"))
	}
	opts := ports.AssessmentOptions{DelayDays: delayDays}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "value" {
			opts.ShipmentValue = &value
		}
	})

	ctx := context.Background()
	svc, err := sf.open(ctx)
	if err != nil {
		return fail(jsonOutput, "assess", err)
	}
	defer svc.close()
	return assess(ctx, svc, shipmentID, opts, jsonOutput)
}

func assess(ctx context.Context, svc services, shipmentID string, opts ports.AssessmentOptions, jsonOutput bool) int {
	a, err := svc.assessor.Assess(ctx, shipmentID, opts)
	if err != nil {
		return fail(jsonOutput, "assess", err)
	}
	code := decisionExitCode(a.Decision)
	if jsonOutput {
		return writeJSON(a, code)
	}
	printAssessment(a)
	return code
}

// runDemo assesses the built-in sample shipment without any data files.
func runDemo(arguments []string) int {
	fs := newFlagSet("demo")
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	if err := fs.Parse(arguments); err != nil {
		return fail(jsonOutput, "demo", usageError("%v", err))
	}
	svc := build(memory.NewFixture(), nil, policy.Static(policy.Default()), 4, func() {})
	return assess(context.Background(), svc, memory.FixtureShipment, ports.AssessmentOptions{}, jsonOutput)
}

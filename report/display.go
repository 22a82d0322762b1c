package report

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

var (
	errorLabel    = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warningLabel  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	doneLabel     = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	locationColor = pterm.FgLightGreen
	countColor    = pterm.FgLightWhite
)

// displayDiagnostic prints a diagnostic as a labelled header line naming the
// node, followed by the indented message.
func displayDiagnostic(d *Diagnostic) {
	label, style := " warning ", warningLabel
	if d.IsError() {
		label, style = " error ", errorLabel
	}

	header := style.Sprint(label) + " " + d.Kind.String()
	if d.Node != nil {
		header += " in " + locationColor.Sprintf("%s (%s)", d.Node.Describe(), d.Node.Span())
	}

	fmt.Println(header)
	fmt.Println("    " + d.Message)
}

// -----------------------------------------------------------------------------

// phaseDisplay shows a spinner while a resolution phase runs.
type phaseDisplay struct {
	spinner *pterm.SpinnerPrinter
	name    string
	started time.Time
}

func (pd *phaseDisplay) begin(name string) {
	pd.name, pd.started = name, time.Now()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(locationColor))
	spinner.SuccessPrinter = phasePrinter("Done", doneLabel)
	spinner.FailPrinter = phasePrinter("Fail", errorLabel)

	// Start runs on a copy: the returned printer is the one to stop.
	pd.spinner, _ = spinner.Start(pd.name + " phase")
}

func (pd *phaseDisplay) end(success bool) {
	if pd.spinner == nil {
		return
	}

	if success {
		pd.spinner.Success(fmt.Sprintf("%s phase (%s)", pd.name, time.Since(pd.started).Round(time.Millisecond)))
	} else {
		pd.spinner.Fail(pd.name + " phase")
	}

	pd.spinner = nil
}

func phasePrinter(text string, style *pterm.Style) *pterm.PrefixPrinter {
	return &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix:       pterm.Prefix{Style: style, Text: text},
	}
}

// -----------------------------------------------------------------------------

// displaySummary prints the closing line with the diagnostic counts.
func displaySummary(errorCount, warningCount int) {
	counts := fmt.Sprintf(
		"%s, %s",
		countColor.Sprint(plural(errorCount, "error")),
		countColor.Sprint(plural(warningCount, "warning")),
	)

	if errorCount == 0 {
		pterm.Success.Println("resolution complete: " + counts)
	} else {
		pterm.Error.Println("resolution failed: " + counts)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return fmt.Sprintf("%d %ss", n, noun)
}

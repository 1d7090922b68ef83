// Package output provides structured output handling for the gitfeed CLI.
//
// Every command works for both people and scripts: with --json the output
// is a single JSON document, otherwise it is styled text that degrades to
// plain text when piped.
//
// # Printer
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//
//	printer.Success(map[string]any{"message": "Fetched origin"})
//	printer.Table([]string{"HASH", "BRANCHES"}, rows)
//	printer.Error(err)
//
// In JSON mode errors are written as {"error": "message", "code": N}.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: bad flags, bad or missing configuration
//	output.ExitSystemError // 2: git failed or timed out, I/O error
//	output.ExitConflict    // 3: the fetch joined one already running
//
// FromError maps errors from the rest of the program onto these codes.
package output

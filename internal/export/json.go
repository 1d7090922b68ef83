package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gorewood/gitfeed/internal/output"
	"github.com/gorewood/gitfeed/internal/timeline"
)

// FormatJSON outputs the views as a JSON array to the printer.
func FormatJSON(printer *output.Printer, views []timeline.View) error {
	if views == nil {
		views = []timeline.View{}
	}
	return printer.WriteJSON(views)
}

// WriteJSONFile writes the views as one indented JSON array to path.
func WriteJSONFile(views []timeline.View, path string) error {
	if views == nil {
		views = []timeline.View{}
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return output.NewSystemErrorWithCause("failed to marshal timeline", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return output.NewSystemErrorWithCause(fmt.Sprintf("failed to write file %s", path), err)
	}
	return nil
}

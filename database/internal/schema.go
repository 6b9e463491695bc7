package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Column describes one table column as the backend reports it.
type Column struct {
	DataType string
	Nullable bool
}

// CheckColumns compares the columns a backend reports for table against the
// expected set. Extra columns are allowed.
func CheckColumns(table string, expected, actual map[string]Column) error {
	var missing, mismatched []string

	for name, want := range expected {
		got, ok := actual[name]
		if !ok {
			missing = append(missing, name)
			continue
		}

		if got.DataType != want.DataType {
			mismatched = append(mismatched, fmt.Sprintf("%s: expected %s, got %s", name, want.DataType, got.DataType))
		}
		if got.Nullable != want.Nullable {
			mismatched = append(mismatched, fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", name, want.Nullable, got.Nullable))
		}
	}

	if len(missing) == 0 && len(mismatched) == 0 {
		return nil
	}

	sort.Strings(missing)
	sort.Strings(mismatched)

	var msg strings.Builder
	fmt.Fprintf(&msg, "table %s schema validation failed:\n", table)
	if len(missing) > 0 {
		fmt.Fprintf(&msg, "  missing columns: %s\n", strings.Join(missing, ", "))
	}
	if len(mismatched) > 0 {
		msg.WriteString("  mismatched columns:\n")
		for _, m := range mismatched {
			fmt.Fprintf(&msg, "    - %s\n", m)
		}
	}

	return errors.New(msg.String())
}

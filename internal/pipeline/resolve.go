package pipeline

import (
	"github.com/pkg/errors"

	"inventox/internal"
	"inventox/internal/util"
)

// ResolveColumn returns the first header, in scan order, whose normalized form is
// exactly one of the accepted names. Matching is case-sensitive.
func ResolveColumn(headers []string, accepted []string) (string, bool) {
	names := make(map[string]struct{}, len(accepted))
	for _, a := range accepted {
		names[util.NormalizeHeader(a)] = struct{}{}
	}
	for _, h := range headers {
		if _, ok := names[util.NormalizeHeader(h)]; ok {
			return h, true
		}
	}
	return "", false
}

func ResolveColumns(headers []string, identifierNames, labelNames []string) (internal.ResolvedColumns, error) {
	id, ok := ResolveColumn(headers, identifierNames)
	if !ok {
		return internal.ResolvedColumns{}, missingColumn(internal.RoleIdentifier, headers)
	}
	label, ok := ResolveColumn(headers, labelNames)
	if !ok {
		return internal.ResolvedColumns{}, missingColumn(internal.RoleLabel, headers)
	}
	return internal.ResolvedColumns{Identifier: id, Label: label}, nil
}

func missingColumn(role internal.ColumnRole, headers []string) error {
	return errors.WithStack(&MissingColumnError{Role: role, Available: append([]string(nil), headers...)})
}

package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	// Check scopes.
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.ID != scopeID {
			errs = append(errs, fmt.Errorf("scope %d carries id %d", scopeID, scope.ID))
		}
		if !scope.Parent.IsValid() {
			if scopeID != t.global {
				errs = append(errs, fmt.Errorf("scope %d has no parent", scopeID))
			}
			continue
		}
		if int(scope.Parent) >= len(t.Scopes.data) || scope.Parent >= scopeID {
			errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
			continue
		}
		if !slices.Contains(t.Scopes.data[scope.Parent].Children, scopeID) {
			errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
		}
	}

	// Every variable belongs to exactly one scope.
	owners := make(map[VarID]ScopeID, t.vars.len())
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scope := t.Scopes.data[idx]
		for _, v := range scope.Vars {
			if prev, dup := owners[v]; dup {
				errs = append(errs, fmt.Errorf("variable %d listed in scopes %d and %d", v, prev, scope.ID))
				continue
			}
			owners[v] = scope.ID
		}
	}
	for idx := 1; idx < len(t.vars.data); idx++ {
		id := VarID(idx) // #nosec G115 -- bounded by arena size
		v := t.vars.data[idx]
		if owner, ok := owners[id]; !ok || owner != v.Scope {
			errs = append(errs, fmt.Errorf("variable %d (%s) is missing from scope %d list", id, v.Name, v.Scope))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}

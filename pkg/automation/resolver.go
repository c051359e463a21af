package automation

import "context"

// ResolveDefinition selects a saved job definition given an optional id
// and/or library path. An empty string means the argument is absent.
//
// If an id is provided the lookup is by id only and the path is ignored
// entirely, even when both are supplied and name different definitions; the
// path is consulted only when no id is given. This mirrors the precedence
// the live service was observed to apply.
//
// A miss on the chosen key returns (nil, nil) rather than an error: the two
// historical call sites disagree on whether that is a structured failure or
// a thrown error, so severity is the caller's policy decision.
func (r *Registry) ResolveDefinition(ctx context.Context, definitionID, libraryPath string) (*JobDefinition, error) {
	if definitionID == "" && libraryPath == "" {
		return nil, ErrMissingArguments
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if definitionID != "" {
		for i := range r.definitions {
			if r.definitions[i].ID.String() == definitionID {
				def := r.definitions[i]
				return &def, nil
			}
		}
		return nil, nil
	}
	for i := range r.definitions {
		if r.definitions[i].LibraryPath == libraryPath {
			def := r.definitions[i]
			return &def, nil
		}
	}
	return nil, nil
}

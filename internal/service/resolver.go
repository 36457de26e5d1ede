// internal/service/resolver.go
package service

import "github.com/unclebandit/walink-backend/internal/model"

// SelectionParams carries the parameters of a recipient selection mode.
type SelectionParams struct {
	Group      string   `json:"group,omitempty"`
	ContactIDs []string `json:"contact_ids,omitempty"`
}

// ResolveRecipients derives the ordered target set for a selection mode. The output keeps
// the order of contacts (the store order) whatever the mode. Unknown modes and an empty
// group yield an empty result; callers reject empty sets themselves.
func ResolveRecipients(mode string, params SelectionParams, contacts []model.Contact) []model.Contact {
	out := []model.Contact{}

	switch mode {
	case model.SelectAll:
		out = append(out, contacts...)

	case model.SelectGroup:
		if params.Group == "" {
			return out
		}
		for _, c := range contacts {
			if c.Group == params.Group {
				out = append(out, c)
			}
		}

	case model.SelectManual:
		wanted := make(map[string]struct{}, len(params.ContactIDs))
		for _, id := range params.ContactIDs {
			wanted[id] = struct{}{}
		}
		for _, c := range contacts {
			if _, ok := wanted[c.ID]; ok {
				out = append(out, c)
			}
		}
	}

	return out
}

func contactIDs(contacts []model.Contact) []string {
	ids := make([]string, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	return ids
}

package components

import (
	"fmt"
	"strconv"
	"strings"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/utils"
)

// PageSigil prefixes select values that switch pages instead of choosing an item
const PageSigil = ">"

// MaxSelectOptions is the platform limit on options in one select menu
const MaxSelectOptions = 25

// pageSize leaves room for the previous and next page options on multi-page lists
const pageSize = MaxSelectOptions - 2

// MaxLabelLength is the platform limit on select option labels
const MaxLabelLength = 100

func PageToken(page uint) string {
	return PageSigil + strconv.FormatUint(uint64(page), 10)
}

// Selection is a decoded select value: either a page change or a chosen item
type Selection struct {
	Page *uint
	ID   string
}

func (s Selection) IsPage() bool {
	return s.Page != nil
}

// Apply stores the selection into a session's fields. A page token moves only the cursor.
func (s Selection) Apply(selectedID *string, page *uint) {
	if s.Page != nil {
		*page = *s.Page
		return
	}
	*selectedID = s.ID
}

func ParseSelection(value string) (Selection, error) {
	if value == "" {
		return Selection{}, fmt.Errorf("%w: empty select value", core.ErrProtocol)
	}
	if !strings.HasPrefix(value, PageSigil) {
		return Selection{ID: value}, nil
	}

	n, err := strconv.ParseUint(strings.TrimPrefix(value, PageSigil), 10, 32)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: invalid page token %q", core.ErrProtocol, value)
	}
	page := uint(n)
	return Selection{Page: &page}, nil
}

// Item is one selectable entity
type Item struct {
	ID          string
	Label       string
	Description string
}

// PageCount returns how many pages a list of n items renders to
func PageCount(n int) uint {
	if n <= MaxSelectOptions {
		return 1
	}
	return uint((n + pageSize - 1) / pageSize)
}

// PagedSelect renders one page of items. The item matching selectedID is marked as the default
// option on whichever page it lands, and page is clamped to the last page.
func PagedSelect(customID, placeholder string, items []Item, selectedID string, page uint) clients.StringSelect {
	utils.AssertInvariant(len(items) > 0, "paged select needs at least one item")

	pages := PageCount(len(items))
	if page >= pages {
		page = pages - 1
	}

	visible := items
	if pages > 1 {
		start := int(page) * pageSize
		end := min(start+pageSize, len(items))
		visible = items[start:end]
	}

	options := make([]clients.SelectOption, 0, MaxSelectOptions)
	if page > 0 {
		options = append(options, clients.SelectOption{
			Label:       "◀ Previous page",
			Value:       PageToken(page - 1),
			Description: fmt.Sprintf("Page %d of %d", page, pages),
		})
	}
	for _, item := range visible {
		options = append(options, clients.SelectOption{
			Label:       utils.Truncate(item.Label, MaxLabelLength),
			Value:       item.ID,
			Description: utils.Truncate(item.Description, MaxLabelLength),
			Default:     selectedID != "" && item.ID == selectedID,
		})
	}
	if page+1 < pages {
		options = append(options, clients.SelectOption{
			Label:       "Next page ▶",
			Value:       PageToken(page + 1),
			Description: fmt.Sprintf("Page %d of %d", page+2, pages),
		})
	}

	return clients.StringSelect{
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     options,
	}
}

// Contains reports whether id is one of the items
func Contains(items []Item, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

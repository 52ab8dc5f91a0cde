package router

import (
	"fmt"
	"strings"

	"supportbot/core"
	"supportbot/utils"
)

// Delimiter separates the segments of a custom ID
const Delimiter = "/"

// Family is the first segment of a custom ID and names the workflow it belongs to
type Family string

const (
	FamilyCreateTicket Family = "create_ticket"
	FamilyReply        Family = "reply"
	FamilyTicket       Family = "ticket"
	FamilySetup        Family = "setup"
	FamilySettings     Family = "settings"
)

// Families lists every routable family
var Families = []Family{FamilyCreateTicket, FamilyReply, FamilyTicket, FamilySetup, FamilySettings}

type Action string

const (
	ActionStart           Action = "start"
	ActionSetCategory     Action = "set_category"
	ActionConfirmCategory Action = "confirm_category"
	ActionMessage         Action = "message"
	ActionRetry           Action = "retry"
	ActionCancel          Action = "cancel"
	ActionClose           Action = "close"
	ActionAdminRole       Action = "admin_role"
	ActionStaffRole       Action = "staff_role"
	ActionConfirm         Action = "confirm"
	ActionCategory        Action = "category"
	ActionForm            Action = "form"
	ActionSubmit          Action = "submit"
)

// SettingsFlow is the second segment of settings custom IDs
type SettingsFlow string

const (
	SettingsFlowCategoryForm   SettingsFlow = "category_form"
	SettingsFlowTicketTypeForm SettingsFlow = "ticket_type_form"
)

func (f SettingsFlow) IsValid() bool {
	return f == SettingsFlowCategoryForm || f == SettingsFlowTicketTypeForm
}

// Route is a parsed custom ID
type Route struct {
	Family    Family
	Flow      SettingsFlow
	SessionID string
	Action    Action
}

// String re-encodes the route; Parse(r.String()) == r for every valid route
func (r Route) String() string {
	if r.Family == FamilySettings {
		return strings.Join([]string{string(r.Family), string(r.Flow), r.SessionID, string(r.Action)}, Delimiter)
	}
	return strings.Join([]string{string(r.Family), r.SessionID, string(r.Action)}, Delimiter)
}

// IsModal reports whether the route addresses a modal submission rather than a component
func (r Route) IsModal() bool {
	return r.Action == ActionMessage
}

// grammar lists the actions each family accepts, split by whether they run without a session
type grammar struct {
	stateless map[Action]bool
	session   map[Action]bool
}

func actions(list ...Action) map[Action]bool {
	m := make(map[Action]bool, len(list))
	for _, a := range list {
		m[a] = true
	}
	return m
}

var grammars = map[Family]grammar{
	FamilyCreateTicket: {
		stateless: actions(ActionStart),
		session:   actions(ActionSetCategory, ActionConfirmCategory, ActionMessage, ActionRetry, ActionCancel),
	},
	FamilyReply: {
		stateless: actions(ActionStart),
		session:   actions(ActionMessage),
	},
	FamilyTicket: {
		stateless: actions(ActionClose),
	},
	FamilySetup: {
		session: actions(ActionAdminRole, ActionStaffRole, ActionConfirm, ActionCancel),
	},
	FamilySettings: {
		session: actions(ActionCategory, ActionForm, ActionSubmit, ActionCancel),
	},
}

// Parse decodes a custom ID. Anything outside the known taxonomy is a protocol error.
func Parse(customID string) (Route, error) {
	segments := strings.Split(customID, Delimiter)
	family := Family(segments[0])

	g, ok := grammars[family]
	if !ok {
		return Route{}, fmt.Errorf("%w: unknown custom ID family in %q", core.ErrProtocol, customID)
	}

	var route Route
	switch family {
	case FamilySettings:
		if len(segments) != 4 {
			return Route{}, fmt.Errorf("%w: settings custom ID %q must have 4 segments", core.ErrProtocol, customID)
		}
		flow := SettingsFlow(segments[1])
		if !flow.IsValid() {
			return Route{}, fmt.Errorf("%w: unknown settings flow in %q", core.ErrProtocol, customID)
		}
		route = Route{Family: family, Flow: flow, SessionID: segments[2], Action: Action(segments[3])}
	default:
		if len(segments) != 3 {
			return Route{}, fmt.Errorf("%w: custom ID %q must have 3 segments", core.ErrProtocol, customID)
		}
		route = Route{Family: family, SessionID: segments[1], Action: Action(segments[2])}
	}

	if route.SessionID == "" {
		if !g.stateless[route.Action] {
			return Route{}, fmt.Errorf("%w: action %q of %s requires a session", core.ErrProtocol, route.Action, family)
		}
	} else if !g.session[route.Action] {
		return Route{}, fmt.Errorf("%w: unknown action %q for %s session", core.ErrProtocol, route.Action, family)
	}

	return route, nil
}

func build(route Route) string {
	id := route.String()
	_, err := Parse(id)
	utils.AssertInvariant(err == nil, "built custom ID must parse: "+id)
	return id
}

func CreateTicketStartID() string {
	return build(Route{Family: FamilyCreateTicket, Action: ActionStart})
}

func CreateTicketID(sessionID string, action Action) string {
	return build(Route{Family: FamilyCreateTicket, SessionID: sessionID, Action: action})
}

func ReplyStartID() string {
	return build(Route{Family: FamilyReply, Action: ActionStart})
}

func ReplyMessageID(sessionID string) string {
	return build(Route{Family: FamilyReply, SessionID: sessionID, Action: ActionMessage})
}

func TicketCloseID() string {
	return build(Route{Family: FamilyTicket, Action: ActionClose})
}

func SetupID(sessionID string, action Action) string {
	return build(Route{Family: FamilySetup, SessionID: sessionID, Action: action})
}

func SettingsID(flow SettingsFlow, sessionID string, action Action) string {
	return build(Route{Family: FamilySettings, Flow: flow, SessionID: sessionID, Action: action})
}

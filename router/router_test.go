package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/core"
	"supportbot/models"
)

// recorder implements every family handler and remembers the last call
type recorder struct {
	call      string
	sessionID string
	flow      SettingsFlow
	err       error
}

func (r *recorder) record(call, sessionID string) error {
	r.call, r.sessionID = call, sessionID
	return r.err
}

func (r *recorder) StartCreateTicket(_ context.Context, _ *models.Interaction) error {
	return r.record("StartCreateTicket", "")
}
func (r *recorder) SetCategory(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("SetCategory", sid)
}
func (r *recorder) ConfirmCategory(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("ConfirmCategory", sid)
}
func (r *recorder) SubmitTicket(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("SubmitTicket", sid)
}
func (r *recorder) RetryTicket(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("RetryTicket", sid)
}
func (r *recorder) CancelTicket(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("CancelTicket", sid)
}
func (r *recorder) StartReply(_ context.Context, _ *models.Interaction) error {
	return r.record("StartReply", "")
}
func (r *recorder) SubmitReply(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("SubmitReply", sid)
}
func (r *recorder) CloseTicket(_ context.Context, _ *models.Interaction) error {
	return r.record("CloseTicket", "")
}
func (r *recorder) StartSetup(_ context.Context, _ *models.Interaction) error {
	return r.record("StartSetup", "")
}
func (r *recorder) SelectAdminRole(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("SelectAdminRole", sid)
}
func (r *recorder) SelectStaffRole(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("SelectStaffRole", sid)
}
func (r *recorder) ConfirmSetup(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("ConfirmSetup", sid)
}
func (r *recorder) CancelSetup(_ context.Context, _ *models.Interaction, sid string) error {
	return r.record("CancelSetup", sid)
}
func (r *recorder) HandleSettingsCommand(_ context.Context, _ *models.Interaction) error {
	return r.record("HandleSettingsCommand", "")
}
func (r *recorder) SelectTarget(_ context.Context, _ *models.Interaction, flow SettingsFlow, sid string) error {
	r.flow = flow
	return r.record("SelectTarget", sid)
}
func (r *recorder) SelectForm(_ context.Context, _ *models.Interaction, flow SettingsFlow, sid string) error {
	r.flow = flow
	return r.record("SelectForm", sid)
}
func (r *recorder) SubmitAssociation(_ context.Context, _ *models.Interaction, flow SettingsFlow, sid string) error {
	r.flow = flow
	return r.record("SubmitAssociation", sid)
}
func (r *recorder) CancelAssociation(_ context.Context, _ *models.Interaction, flow SettingsFlow, sid string) error {
	r.flow = flow
	return r.record("CancelAssociation", sid)
}

func newTestRouter() (*Router, *recorder) {
	rec := &recorder{}
	return NewRouter(rec, rec, rec, rec, rec), rec
}

func component(customID string) *models.Interaction {
	return &models.Interaction{Type: models.InteractionTypeComponent, CustomID: customID}
}

func modal(customID string) *models.Interaction {
	return &models.Interaction{Type: models.InteractionTypeModalSubmit, CustomID: customID}
}

func TestDispatch_Components(t *testing.T) {
	tests := []struct {
		it        *models.Interaction
		call      string
		sessionID string
	}{
		{component("create_ticket//start"), "StartCreateTicket", ""},
		{component("create_ticket/s_1/set_category"), "SetCategory", "s_1"},
		{component("create_ticket/s_1/confirm_category"), "ConfirmCategory", "s_1"},
		{modal("create_ticket/s_1/message"), "SubmitTicket", "s_1"},
		{component("create_ticket/s_1/retry"), "RetryTicket", "s_1"},
		{component("create_ticket/s_1/cancel"), "CancelTicket", "s_1"},
		{component("reply//start"), "StartReply", ""},
		{modal("reply/s_2/message"), "SubmitReply", "s_2"},
		{component("ticket//close"), "CloseTicket", ""},
		{component("setup/s_3/admin_role"), "SelectAdminRole", "s_3"},
		{component("setup/s_3/staff_role"), "SelectStaffRole", "s_3"},
		{component("setup/s_3/confirm"), "ConfirmSetup", "s_3"},
		{component("setup/s_3/cancel"), "CancelSetup", "s_3"},
		{component("settings/category_form/s_4/category"), "SelectTarget", "s_4"},
		{component("settings/category_form/s_4/form"), "SelectForm", "s_4"},
		{component("settings/category_form/s_4/submit"), "SubmitAssociation", "s_4"},
		{component("settings/category_form/s_4/cancel"), "CancelAssociation", "s_4"},
	}

	for _, tt := range tests {
		t.Run(tt.it.CustomID, func(t *testing.T) {
			r, rec := newTestRouter()
			require.NoError(t, r.Dispatch(context.Background(), tt.it))
			assert.Equal(t, tt.call, rec.call)
			assert.Equal(t, tt.sessionID, rec.sessionID)
		})
	}
}

func TestDispatch_SettingsFlowIsForwarded(t *testing.T) {
	r, rec := newTestRouter()
	require.NoError(t, r.Dispatch(context.Background(), component("settings/ticket_type_form/s_1/form")))
	assert.Equal(t, SettingsFlowTicketTypeForm, rec.flow)
}

func TestDispatch_Commands(t *testing.T) {
	tests := map[string]string{
		CommandSetup:    "StartSetup",
		CommandSettings: "HandleSettingsCommand",
		CommandReply:    "StartReply",
		CommandClose:    "CloseTicket",
	}
	for name, call := range tests {
		t.Run(name, func(t *testing.T) {
			r, rec := newTestRouter()
			it := &models.Interaction{Type: models.InteractionTypeCommand, CommandPath: []string{name}}
			require.NoError(t, r.Dispatch(context.Background(), it))
			assert.Equal(t, call, rec.call)
		})
	}
	r, _ := newTestRouter()
	assert.ElementsMatch(t, []string{CommandSetup, CommandSettings, CommandReply, CommandClose}, r.Commands())
}

func TestDispatch_ProtocolErrors(t *testing.T) {
	tests := map[string]*models.Interaction{
		"unknown command":       {Type: models.InteractionTypeCommand, CommandPath: []string{"ban"}},
		"unknown custom id":     component("create_ticket/s_1/bogus"),
		"modal id as component": component("reply/s_1/message"),
		"component id as modal": modal("setup/s_1/confirm"),
		"unknown type":          {Type: models.InteractionType(99), CustomID: "ticket//close"},
	}
	for name, it := range tests {
		t.Run(name, func(t *testing.T) {
			r, rec := newTestRouter()
			err := r.Dispatch(context.Background(), it)
			assert.ErrorIs(t, err, core.ErrProtocol)
			assert.Empty(t, rec.call)
		})
	}
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	r, rec := newTestRouter()
	rec.err = errors.New("db down")
	err := r.Dispatch(context.Background(), component("ticket//close"))
	assert.EqualError(t, err, "db down")
}

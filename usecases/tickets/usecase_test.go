package tickets

import (
	"context"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"supportbot/clients"
	discordclient "supportbot/clients/discord"
	"supportbot/core"
	"supportbot/models"
	"supportbot/services/categories"
	"supportbot/services/forms"
	"supportbot/services/guildconfigs"
	ticketsservice "supportbot/services/tickets"
	"supportbot/sessions"
)

const (
	testGuildID    = "guild-1"
	testUserID     = "user-1"
	testStaffID    = "staff-1"
	testAdminRole  = "role-admin"
	testStaffRole  = "role-staff"
	testChannelID  = "channel-partners"
	testThreadID   = "thread-1"
	testTicketID   = "tkt_01J9ZQ4N4W0F5V6K7M8N9P0Q1R"
	testCategoryID = "cat_01J9ZQ4N4W0F5V6K7M8N9P0Q1R"
	testFormID     = "frm_01J9ZQ4N4W0F5V6K7M8N9P0Q1R"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type ticketsUseCaseTestFixture struct {
	useCase *TicketsUseCase
	mocks   *ticketsUseCaseMocks
	store   *sessions.Store
	ctx     context.Context
}

type ticketsUseCaseMocks struct {
	discordClient       *discordclient.MockDiscordClient
	guildConfigsService *guildconfigs.MockGuildConfigsService
	ticketsService      *ticketsservice.MockTicketsService
	categoriesService   *categories.MockCategoriesService
	formsService        *forms.MockFormsService
}

func setupTicketsUseCaseTest(t *testing.T) *ticketsUseCaseTestFixture {
	mocks := &ticketsUseCaseMocks{
		discordClient:       new(discordclient.MockDiscordClient),
		guildConfigsService: new(guildconfigs.MockGuildConfigsService),
		ticketsService:      new(ticketsservice.MockTicketsService),
		categoriesService:   new(categories.MockCategoriesService),
		formsService:        new(forms.MockFormsService),
	}
	store := sessions.NewStore(time.Minute)
	t.Cleanup(store.Close)

	useCase := NewTicketsUseCase(
		mocks.discordClient,
		mocks.guildConfigsService,
		mocks.ticketsService,
		mocks.categoriesService,
		mocks.formsService,
		store,
	)
	useCase.now = func() time.Time { return testNow }

	return &ticketsUseCaseTestFixture{
		useCase: useCase,
		mocks:   mocks,
		store:   store,
		ctx:     context.Background(),
	}
}

func (f *ticketsUseCaseTestFixture) assertAllExpectations(t *testing.T) {
	f.mocks.discordClient.AssertExpectations(t)
	f.mocks.guildConfigsService.AssertExpectations(t)
	f.mocks.ticketsService.AssertExpectations(t)
	f.mocks.categoriesService.AssertExpectations(t)
	f.mocks.formsService.AssertExpectations(t)
}

func (f *ticketsUseCaseTestFixture) expectGuildConfig(config *models.GuildConfig) {
	f.mocks.guildConfigsService.On("GetGuildConfig", mock.Anything, testGuildID).
		Return(mo.Some(config), nil)
}

// expectDefer expects the interaction to be acknowledged ahead of slow work
func (f *ticketsUseCaseTestFixture) expectDefer() {
	f.mocks.discordClient.On("DeferMessage", mock.Anything, mock.Anything, true).Return(nil).Once()
}

// captureMessage records the message passed to the named response method
func (f *ticketsUseCaseTestFixture) captureMessage(method string) *clients.Message {
	captured := &clients.Message{}
	f.mocks.discordClient.On(method, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { *captured = args.Get(2).(clients.Message) }).
		Return(nil)
	return captured
}

func (f *ticketsUseCaseTestFixture) captureModal() *clients.Modal {
	captured := &clients.Modal{}
	f.mocks.discordClient.On("RespondModal", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { *captured = args.Get(2).(clients.Modal) }).
		Return(nil)
	return captured
}

func strPtr(s string) *string {
	return &s
}

func testGuildConfig() *models.GuildConfig {
	return &models.GuildConfig{
		GuildID:             testGuildID,
		AdminRoleID:         testAdminRole,
		StaffRoleID:         testStaffRole,
		NewPartnerChannelID: strPtr(testChannelID),
		QuestionChannelID:   strPtr("channel-questions"),
	}
}

func componentInteraction(customID string, values ...string) *models.Interaction {
	return &models.Interaction{
		ID:       core.FormatSnowflake(testNow, 1),
		Type:     models.InteractionTypeComponent,
		GuildID:  testGuildID,
		UserID:   testUserID,
		CustomID: customID,
		Values:   values,
	}
}

func modalInteraction(customID string, fields map[string]string) *models.Interaction {
	return &models.Interaction{
		ID:       core.FormatSnowflake(testNow, 1),
		Type:     models.InteractionTypeModalSubmit,
		GuildID:  testGuildID,
		UserID:   testUserID,
		CustomID: customID,
		Fields:   fields,
	}
}

func selectOf(message *clients.Message) clients.StringSelect {
	return message.Rows[0].Components[0].(clients.StringSelect)
}

func submitOf(message *clients.Message) clients.Button {
	return message.Rows[len(message.Rows)-1].Components[0].(clients.Button)
}

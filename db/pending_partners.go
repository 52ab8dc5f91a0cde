package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "supportbot/db/tx"
	"supportbot/models"
)

type PostgresPendingPartnersRepository struct {
	db     *sqlx.DB
	schema string
}

var pendingPartnersColumns = []string{
	"ticket_id",
	"guild_id",
	"invite_code",
	"partner_guild_id",
	"created_at",
}

func NewPostgresPendingPartnersRepository(db *sqlx.DB, schema string) *PostgresPendingPartnersRepository {
	return &PostgresPendingPartnersRepository{db: db, schema: schema}
}

func (r *PostgresPendingPartnersRepository) CreatePendingPartner(
	ctx context.Context,
	partner *models.PendingPartner,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(pendingPartnersColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.pending_partners (ticket_id, guild_id, invite_code, partner_guild_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(ctx, query, partner.TicketID, partner.GuildID, partner.InviteCode, partner.PartnerGuildID).
		StructScan(partner)
	if err != nil {
		return fmt.Errorf("failed to create pending partner: %w", err)
	}

	return nil
}

func (r *PostgresPendingPartnersRepository) GetPendingPartnerByTicketID(
	ctx context.Context,
	ticketID string,
) (mo.Option[*models.PendingPartner], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(pendingPartnersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.pending_partners
		WHERE ticket_id = $1`, columnsStr, r.schema)

	var partner models.PendingPartner
	err := db.GetContext(ctx, &partner, query, ticketID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.PendingPartner](), nil
		}
		return mo.None[*models.PendingPartner](), fmt.Errorf("failed to get pending partner: %w", err)
	}

	return mo.Some(&partner), nil
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"preneed-scheduler/internal/schedule"
)

var ErrNotFound = errors.New("not found")

func (a *App) ListAppointments(ctx context.Context, agentID string, from, to time.Time, filtered bool) ([]Appointment, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filtered {
		q := `SELECT id, starts_at, ends_at, status, family_name, location, lead_id
		      FROM appointments
		      WHERE agent_id=$1 AND starts_at >= $2 AND starts_at < $3
		      ORDER BY starts_at`
		rows, err = a.DB.Query(ctx, q, agentID, from, to)
	} else {
		q := `SELECT id, starts_at, ends_at, status, family_name, location, lead_id
		      FROM appointments
		      WHERE agent_id=$1
		      ORDER BY starts_at`
		rows, err = a.DB.Query(ctx, q, agentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var (
			appt     Appointment
			location *string
			leadID   *string
		)
		if err := rows.Scan(&appt.ID, &appt.StartsAt, &appt.EndsAt, &appt.Status,
			&appt.FamilyName, &location, &leadID); err != nil {
			return nil, err
		}
		if location != nil {
			appt.Location = *location
		}
		if leadID != nil {
			appt.LeadID = *leadID
		}
		out = append(out, appt)
	}
	return out, rows.Err()
}

// BookedIntervals returns the confirmed busy windows used to exclude slots.
func (a *App) BookedIntervals(ctx context.Context, agentID string, from, to time.Time) ([]schedule.Interval, error) {
	q := `SELECT starts_at, ends_at FROM appointments
	      WHERE agent_id=$1 AND status='confirmed' AND starts_at < $3 AND ends_at > $2`
	rows, err := a.DB.Query(ctx, q, agentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.Interval
	for rows.Next() {
		var iv schedule.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// GetAvailabilitySettings loads the agent's full settings document, or the
// default seed when none is stored.
func (a *App) GetAvailabilitySettings(ctx context.Context, agentID string) (*AvailabilitySettings, error) {
	if doc, ok := a.Settings.Get(agentID); ok {
		return doc, nil
	}
	q := `SELECT document FROM agent_availability_settings WHERE agent_id=$1`
	var raw []byte
	err := a.DB.QueryRow(ctx, q, agentID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	doc := &AvailabilitySettings{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	a.Settings.Put(agentID, doc)
	return doc, nil
}

// SaveAvailabilitySettings persists the whole document. Last write wins:
// there is no concurrency token on the row.
func (a *App) SaveAvailabilitySettings(ctx context.Context, agentID string, doc *AvailabilitySettings) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	q := `INSERT INTO agent_availability_settings (agent_id, document, created_at, updated_at)
	      VALUES ($1, $2, $3, $3)
	      ON CONFLICT (agent_id) DO UPDATE SET document=$2, updated_at=$3`
	if _, err := a.DB.Exec(ctx, q, agentID, raw, now); err != nil {
		return err
	}
	a.Settings.Invalidate(agentID)
	return nil
}

func (a *App) InsertEvent(ctx context.Context, e *Event) error {
	now := time.Now().UTC()
	q := `INSERT INTO agent_events (id, agent_id, title, starts_at, ends_at, location, description, lead_id, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)`
	_, err := a.DB.Exec(ctx, q,
		e.ID, e.AgentID, e.Title, e.StartsAt, e.EndsAt, e.Location, e.Description, e.LeadID, now)
	if err != nil {
		return err
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (a *App) UpdateEvent(ctx context.Context, e *Event) error {
	now := time.Now().UTC()
	q := `UPDATE agent_events
	      SET title=$1, starts_at=$2, ends_at=$3, location=$4, description=$5, updated_at=$6
	      WHERE id=$7 AND agent_id=$8
	      RETURNING created_at`
	err := a.DB.QueryRow(ctx, q,
		e.Title, e.StartsAt, e.EndsAt, e.Location, e.Description, now, e.ID, e.AgentID,
	).Scan(&e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

// Integration tokens are stored as the oauth2 token JSON, one row per
// agent+provider.
func (a *App) SaveIntegrationToken(ctx context.Context, agentID, provider string, tokenJSON []byte) error {
	now := time.Now().UTC()
	q := `INSERT INTO calendar_integrations (agent_id, provider, token, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$4)
	      ON CONFLICT (agent_id, provider) DO UPDATE SET token=$3, updated_at=$4`
	_, err := a.DB.Exec(ctx, q, agentID, provider, tokenJSON, now)
	return err
}

func (a *App) GetIntegrationToken(ctx context.Context, agentID, provider string) ([]byte, error) {
	q := `SELECT token FROM calendar_integrations WHERE agent_id=$1 AND provider=$2`
	var raw []byte
	err := a.DB.QueryRow(ctx, q, agentID, provider).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (a *App) DeleteIntegrationToken(ctx context.Context, agentID, provider string) error {
	q := `DELETE FROM calendar_integrations WHERE agent_id=$1 AND provider=$2`
	res, err := a.DB.Exec(ctx, q, agentID, provider)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

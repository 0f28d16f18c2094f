package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salondesk/internal/domain"
	"salondesk/internal/models"
)

const appointmentColumns = `id, client_id, client, service_id, service, stylist_id, stylist, date, time, status, notes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *appt)
	}
	return out, rows.Err()
}

func (db *DB) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	args, err := appointmentArgs(appt)
	if err != nil {
		return err
	}
	query := `INSERT INTO appointments (` + appointmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (db *DB) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	args, err := appointmentArgs(appt)
	if err != nil {
		return err
	}
	query := `
        UPDATE appointments
        SET client_id = ?, client = ?, service_id = ?, service = ?, stylist_id = ?, stylist = ?,
            date = ?, time = ?, status = ?, notes = ?, created_at = ?
        WHERE id = ?
    `
	// id moves to the end for the WHERE clause
	res, err := db.db.ExecContext(ctx, query, append(args[1:], args[0])...)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("appointment %s: %w", appt.ID, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) UpdateAppointmentStatus(ctx context.Context, appt *models.Appointment) error {
	res, err := db.db.ExecContext(ctx, `UPDATE appointments SET status = ? WHERE id = ?`, string(appt.Status), appt.ID)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("appointment %s: %w", appt.ID, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteAppointment(ctx context.Context, id string) error {
	if _, err := db.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func appointmentArgs(appt *models.Appointment) ([]any, error) {
	client, err := json.Marshal(appt.Client)
	if err != nil {
		return nil, err
	}
	service, err := json.Marshal(appt.Service)
	if err != nil {
		return nil, err
	}
	stylist, err := json.Marshal(appt.Stylist)
	if err != nil {
		return nil, err
	}
	return []any{
		appt.ID,
		appt.ClientID, string(client),
		appt.ServiceID, string(service),
		appt.StylistID, string(stylist),
		appt.Date, appt.Time, string(appt.Status), appt.Notes,
		appt.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var (
		a                        models.Appointment
		client, service, stylist string
		status, createdAt        string
	)
	err := row.Scan(&a.ID, &a.ClientID, &client, &a.ServiceID, &service, &a.StylistID, &stylist,
		&a.Date, &a.Time, &status, &a.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(client), &a.Client); err != nil {
		return nil, fmt.Errorf("appointment %s client: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(service), &a.Service); err != nil {
		return nil, fmt.Errorf("appointment %s service: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(stylist), &a.Stylist); err != nil {
		return nil, fmt.Errorf("appointment %s stylist: %w", a.ID, err)
	}
	a.Status = models.Status(status)
	a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("appointment %s created_at: %w", a.ID, err)
	}
	return &a, nil
}

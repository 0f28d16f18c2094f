package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"salondesk/internal/domain"
	"salondesk/internal/models"
)

func (db *DB) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT id, name, email, phone, avatar FROM clients ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Avatar); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := db.db.QueryRowContext(ctx, `SELECT id, name, email, phone, avatar FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) ListStylists(ctx context.Context) ([]models.Stylist, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT id, name, specialties FROM stylists ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stylists: %w", err)
	}
	defer rows.Close()

	var out []models.Stylist
	for rows.Next() {
		s, err := scanStylist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (db *DB) GetStylist(ctx context.Context, id string) (*models.Stylist, error) {
	s, err := scanStylist(db.db.QueryRowContext(ctx, `SELECT id, name, specialties FROM stylists WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stylist %s: %w", id, domain.ErrNotFound)
	}
	return s, err
}

func scanStylist(row rowScanner) (*models.Stylist, error) {
	var (
		s           models.Stylist
		specialties string
	)
	if err := row.Scan(&s.ID, &s.Name, &specialties); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specialties), &s.Specialties); err != nil {
		return nil, fmt.Errorf("stylist %s specialties: %w", s.ID, err)
	}
	return &s, nil
}

const serviceColumns = `id, name, price, duration, category, description, is_active`

func (db *DB) ListServices(ctx context.Context) ([]models.Service, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var out []models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Duration, &s.Category, &s.Description, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (db *DB) GetService(ctx context.Context, id string) (*models.Service, error) {
	var s models.Service
	err := db.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Price, &s.Duration, &s.Category, &s.Description, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("service %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) CreateService(ctx context.Context, svc *models.Service) error {
	_, err := db.db.ExecContext(ctx, `INSERT INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		svc.ID, svc.Name, svc.Price, svc.Duration, svc.Category, svc.Description, svc.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (db *DB) UpdateService(ctx context.Context, svc *models.Service) error {
	res, err := db.db.ExecContext(ctx, `
        UPDATE services
        SET name = ?, price = ?, duration = ?, category = ?, description = ?, is_active = ?
        WHERE id = ?
    `, svc.Name, svc.Price, svc.Duration, svc.Category, svc.Description, svc.IsActive, svc.ID)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("service %s: %w", svc.ID, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteService(ctx context.Context, id string) error {
	if _, err := db.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

// SyncCatalog writes the seed catalog in one transaction. Clients and
// stylists are upserted; services are only inserted when missing so edits
// made through the API are kept.
func (db *DB) SyncCatalog(ctx context.Context, catalog models.Catalog) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range catalog.Clients {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO clients (id, name, email, phone, avatar) VALUES (?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email,
                phone = excluded.phone, avatar = excluded.avatar
        `, c.ID, c.Name, c.Email, c.Phone, c.Avatar)
		if err != nil {
			return fmt.Errorf("failed to sync client %s: %w", c.ID, err)
		}
	}

	for _, s := range catalog.Stylists {
		specialties, err := json.Marshal(nonNil(s.Specialties))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO stylists (id, name, specialties) VALUES (?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET name = excluded.name, specialties = excluded.specialties
        `, s.ID, s.Name, string(specialties))
		if err != nil {
			return fmt.Errorf("failed to sync stylist %s: %w", s.ID, err)
		}
	}

	for _, s := range catalog.Services {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Price, s.Duration, s.Category, s.Description, s.IsActive)
		if err != nil {
			return fmt.Errorf("failed to sync service %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.logger.Info().
		Int("clients", len(catalog.Clients)).
		Int("stylists", len(catalog.Stylists)).
		Int("services", len(catalog.Services)).
		Msg("Catalog synced")
	return nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

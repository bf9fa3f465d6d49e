// README: Ride store backed by PostgreSQL.
package ride

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const ensureCustomerSQL = `INSERT INTO customers (customer_id) VALUES ($1) ON CONFLICT (customer_id) DO NOTHING`

func (s *Store) EnsureCustomer(ctx context.Context, customerID string) error {
	_, err := s.db.Exec(ctx, ensureCustomerSQL, customerID)
	return err
}

// RecordRide inserts the customer (if new) and the ride in one transaction and fills
// in r.ID and r.Date.
func (s *Store) RecordRide(ctx context.Context, r *Ride) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, ensureCustomerSQL, r.CustomerID); err != nil {
			return fmt.Errorf("ensure customer: %w", err)
		}
		row := tx.QueryRow(ctx, `
            INSERT INTO rides (
                customer_id, origin, destination, distance,
                duration, driver_id, driver_name, value
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING id, date`,
			r.CustomerID,
			r.Origin,
			r.Destination,
			r.DistanceMeters,
			r.DurationText,
			r.DriverID,
			r.DriverName,
			r.Value,
		)
		if err := row.Scan(&r.ID, &r.Date); err != nil {
			return fmt.Errorf("insert ride: %w", err)
		}
		return nil
	})
}

// ListByCustomer returns the customer's rides, newest first. A nil driverID means any driver.
func (s *Store) ListByCustomer(ctx context.Context, customerID string, driverID *int64) ([]Ride, error) {
	query := `
        SELECT id, customer_id, date, origin, destination, distance,
               duration, driver_id, driver_name, value
        FROM rides
        WHERE customer_id = $1`
	args := []any{customerID}
	if driverID != nil {
		query += ` AND driver_id = $2`
		args = append(args, *driverID)
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []Ride{}
	for rows.Next() {
		var r Ride
		if err := rows.Scan(
			&r.ID, &r.CustomerID, &r.Date, &r.Origin, &r.Destination, &r.DistanceMeters,
			&r.DurationText, &r.DriverID, &r.DriverName, &r.Value,
		); err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	return rides, rows.Err()
}

package db

import "database/sql"

// EnsureSchema creates the tables the app needs when they do not exist yet.
// The unique keys on seat_template_entries and trip_seats are load-bearing:
// the booking ledger relies on them to keep one seat row per (trip, seat)
// and to make duplicate inserts fail at the store instead of racing.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(100) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_users_email (email),
			UNIQUE KEY uniq_users_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS locations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			city VARCHAR(255) NOT NULL DEFAULT '',
			address VARCHAR(500) NOT NULL DEFAULT '',
			UNIQUE KEY uniq_locations_name (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS vehicle_types (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			seat_capacity INT NOT NULL,
			price_per_seat BIGINT NOT NULL DEFAULT 0,
			UNIQUE KEY uniq_vehicle_types_name (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS seat_template_entries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_type_id BIGINT NOT NULL,
			seat_number VARCHAR(20) NOT NULL,
			seat_row INT NOT NULL DEFAULT 0,
			seat_col INT NOT NULL DEFAULT 0,
			default_available TINYINT(1) NOT NULL DEFAULT 1,
			UNIQUE KEY uniq_template_seat (vehicle_type_id, seat_number),
			KEY idx_template_type (vehicle_type_id),
			CONSTRAINT fk_template_type FOREIGN KEY (vehicle_type_id) REFERENCES vehicle_types(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			plate_number VARCHAR(20) NOT NULL,
			vehicle_type_id BIGINT NOT NULL,
			UNIQUE KEY uniq_vehicles_plate (plate_number),
			CONSTRAINT fk_vehicle_type FOREIGN KEY (vehicle_type_id) REFERENCES vehicle_types(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS trips (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_id BIGINT NOT NULL,
			driver_id BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'upcoming',
			note VARCHAR(500) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_trips_vehicle (vehicle_id),
			KEY idx_trips_status (status),
			CONSTRAINT fk_trip_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS trip_stops (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			trip_id BIGINT NOT NULL,
			location_id BIGINT NOT NULL,
			stop_order INT NOT NULL,
			arrives_at DATETIME NULL,
			departs_at DATETIME NULL,
			kind VARCHAR(10) NOT NULL DEFAULT 'pickup',
			UNIQUE KEY uniq_trip_stop_order (trip_id, stop_order),
			KEY idx_stops_trip (trip_id),
			CONSTRAINT fk_stop_trip FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE,
			CONSTRAINT fk_stop_location FOREIGN KEY (location_id) REFERENCES locations(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS trip_seats (
			trip_id BIGINT NOT NULL,
			seat_number VARCHAR(20) NOT NULL,
			is_booked TINYINT(1) NOT NULL DEFAULT 0,
			ticket_id BIGINT NULL,
			PRIMARY KEY (trip_id, seat_number),
			KEY idx_trip_seats_ticket (ticket_id),
			CONSTRAINT fk_seat_trip FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS tickets (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			code VARCHAR(40) NOT NULL,
			user_id BIGINT NOT NULL,
			trip_id BIGINT NOT NULL,
			pickup_stop_id BIGINT NOT NULL,
			dropoff_stop_id BIGINT NOT NULL,
			seat_number VARCHAR(20) NOT NULL,
			price BIGINT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'booked',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_tickets_code (code),
			KEY idx_tickets_trip (trip_id),
			KEY idx_tickets_user (user_id),
			KEY idx_tickets_status (status),
			CONSTRAINT fk_ticket_trip FOREIGN KEY (trip_id) REFERENCES trips(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ticket_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			method VARCHAR(50) NOT NULL,
			paid_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			KEY idx_payments_ticket (ticket_id),
			CONSTRAINT fk_payment_ticket FOREIGN KEY (ticket_id) REFERENCES tickets(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	}

	for _, ddl := range stmts {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

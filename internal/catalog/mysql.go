package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// The catalog is read once per reload; a small pool is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// MySQLLoader reads rooms from a table maintained by another system.  It
// never writes.  Amenities are stored as a comma separated list.
type MySQLLoader struct {
	DB    *sql.DB
	Table string
}

// NewMySQLLoader returns a loader over table, defaulting to "rooms".
func NewMySQLLoader(db *sql.DB, table string) *MySQLLoader {
	if table == "" {
		table = "rooms"
	}
	return &MySQLLoader{DB: db, Table: table}
}

func (l *MySQLLoader) query() string {
	return "SELECT id, name, capacity, zone, location, amenities, image FROM `" +
		strings.ReplaceAll(l.Table, "`", "") + "` WHERE active = 1"
}

// LoadRooms reads every active room.
func (l *MySQLLoader) LoadRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := l.DB.QueryContext(ctx, l.query())
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var (
			r         model.Room
			location  sql.NullString
			amenities sql.NullString
			image     sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Capacity, &r.Zone, &location, &amenities, &image); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		r.Location = location.String
		r.Image = image.String
		r.Amenities = splitAmenities(amenities.String)
		r.Zone = strings.ToUpper(strings.TrimSpace(r.Zone))
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rooms: %w", err)
	}
	if err := Validate(rooms); err != nil {
		return nil, err
	}
	sortRooms(rooms)
	return rooms, nil
}

func splitAmenities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

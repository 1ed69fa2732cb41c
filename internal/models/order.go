package models

import (
	"database/sql"
	"time"
)

// Order — заказ (работа), на который записываются рабочие.
type Order struct {
	ID                  int64
	ClientName          string
	ClientPhone         string
	Description         string
	Address             string
	District            string
	StartTime           time.Time
	Format              string // hour | shift8 | day12
	CitizenshipRequired string // РФ | Иностранец | Любое
	PlacesTotal         int
	PlacesTaken         int
	Features            sql.NullString
	Status              string // created | started | done | cancelled
	Reason              sql.NullString
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsFull — заняты ли все места.
func (o *Order) IsFull() bool {
	return o.PlacesTaken >= o.PlacesTotal
}

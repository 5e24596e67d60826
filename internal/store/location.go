// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"

	"github.com/google/uuid"

	"votehub/internal/models"
)

// LocationStore handles the country, state and city hierarchy.
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore creates a new LocationStore with the given database connection.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

var (
	countries = namedTable[models.Country]{
		table: "countries",
		scan: func(row rowScanner) (*models.Country, error) {
			c := &models.Country{}
			err := row.Scan(&c.ID, &c.Name, &c.Created, &c.Modified, &c.IsActive, &c.Deleted)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
	states = namedTable[models.State]{
		table:  "states",
		parent: "country_id",
		scan: func(row rowScanner) (*models.State, error) {
			s := &models.State{}
			err := row.Scan(&s.ID, &s.Name, &s.CountryID, &s.Created, &s.Modified, &s.IsActive, &s.Deleted)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
	cities = namedTable[models.City]{
		table:  "cities",
		parent: "state_id",
		scan: func(row rowScanner) (*models.City, error) {
			c := &models.City{}
			err := row.Scan(&c.ID, &c.Name, &c.StateID, &c.Created, &c.Modified, &c.IsActive, &c.Deleted)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
)

func (s *LocationStore) ListCountries() ([]models.Country, error) {
	return countries.list(s.db, nil)
}

func (s *LocationStore) FindCountry(id uuid.UUID) (*models.Country, error) {
	return countries.find(s.db, id)
}

func (s *LocationStore) CreateCountry(name string) (*models.Country, error) {
	return countries.create(s.db, name, uuid.Nil)
}

// ListStates returns live states, optionally restricted to one country.
func (s *LocationStore) ListStates(countryID *uuid.UUID) ([]models.State, error) {
	return states.list(s.db, countryID)
}

func (s *LocationStore) FindState(id uuid.UUID) (*models.State, error) {
	return states.find(s.db, id)
}

func (s *LocationStore) CreateState(name string, countryID uuid.UUID) (*models.State, error) {
	return states.create(s.db, name, countryID)
}

// ListCities returns live cities, optionally restricted to one state.
func (s *LocationStore) ListCities(stateID *uuid.UUID) ([]models.City, error) {
	return cities.list(s.db, stateID)
}

func (s *LocationStore) FindCity(id uuid.UUID) (*models.City, error) {
	return cities.find(s.db, id)
}

func (s *LocationStore) CreateCity(name string, stateID uuid.UUID) (*models.City, error) {
	return cities.create(s.db, name, stateID)
}

// CountryExists reports whether a live country with id exists.
func (s *LocationStore) CountryExists(id uuid.UUID) (bool, error) {
	return exists(s.db, "countries", id, Visible)
}

// StateExists reports whether a live state with id exists.
func (s *LocationStore) StateExists(id uuid.UUID) (bool, error) {
	return exists(s.db, "states", id, Visible)
}

// CityExists reports whether a live city with id exists.
func (s *LocationStore) CityExists(id uuid.UUID) (bool, error) {
	return exists(s.db, "cities", id, Visible)
}

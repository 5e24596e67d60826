// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"

	"github.com/google/uuid"

	"votehub/internal/models"
)

// TaxonomyStore handles the category, sub-category and topic hierarchy.
type TaxonomyStore struct {
	db *sql.DB
}

// NewTaxonomyStore creates a new TaxonomyStore with the given database connection.
func NewTaxonomyStore(db *sql.DB) *TaxonomyStore {
	return &TaxonomyStore{db: db}
}

var (
	categories = namedTable[models.Category]{
		table: "categories",
		scan: func(row rowScanner) (*models.Category, error) {
			c := &models.Category{}
			err := row.Scan(&c.ID, &c.Name, &c.Created, &c.Modified, &c.IsActive, &c.Deleted)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
	subCategories = namedTable[models.SubCategory]{
		table:  "sub_categories",
		parent: "category_id",
		scan: func(row rowScanner) (*models.SubCategory, error) {
			s := &models.SubCategory{}
			err := row.Scan(&s.ID, &s.Name, &s.CategoryID, &s.Created, &s.Modified, &s.IsActive, &s.Deleted)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
	topics = namedTable[models.Topic]{
		table:  "topics",
		parent: "sub_category_id",
		scan: func(row rowScanner) (*models.Topic, error) {
			t := &models.Topic{}
			err := row.Scan(&t.ID, &t.Name, &t.SubCategoryID, &t.Created, &t.Modified, &t.IsActive, &t.Deleted)
			if err != nil {
				return nil, err
			}
			return t, nil
		},
	}
)

func (s *TaxonomyStore) ListCategories() ([]models.Category, error) {
	return categories.list(s.db, nil)
}

func (s *TaxonomyStore) FindCategory(id uuid.UUID) (*models.Category, error) {
	return categories.find(s.db, id)
}

func (s *TaxonomyStore) CreateCategory(name string) (*models.Category, error) {
	return categories.create(s.db, name, uuid.Nil)
}

// ListSubCategories returns live sub-categories, optionally restricted to one category.
func (s *TaxonomyStore) ListSubCategories(categoryID *uuid.UUID) ([]models.SubCategory, error) {
	return subCategories.list(s.db, categoryID)
}

func (s *TaxonomyStore) FindSubCategory(id uuid.UUID) (*models.SubCategory, error) {
	return subCategories.find(s.db, id)
}

func (s *TaxonomyStore) CreateSubCategory(name string, categoryID uuid.UUID) (*models.SubCategory, error) {
	return subCategories.create(s.db, name, categoryID)
}

// ListTopics returns live topics, optionally restricted to one sub-category.
func (s *TaxonomyStore) ListTopics(subCategoryID *uuid.UUID) ([]models.Topic, error) {
	return topics.list(s.db, subCategoryID)
}

func (s *TaxonomyStore) FindTopic(id uuid.UUID) (*models.Topic, error) {
	return topics.find(s.db, id)
}

func (s *TaxonomyStore) CreateTopic(name string, subCategoryID uuid.UUID) (*models.Topic, error) {
	return topics.create(s.db, name, subCategoryID)
}

// CategoryExists reports whether a live category with id exists.
func (s *TaxonomyStore) CategoryExists(id uuid.UUID) (bool, error) {
	return exists(s.db, "categories", id, Visible)
}

// SubCategoryExists reports whether a live sub-category with id exists.
func (s *TaxonomyStore) SubCategoryExists(id uuid.UUID) (bool, error) {
	return exists(s.db, "sub_categories", id, Visible)
}

// TopicExists reports whether a live topic with id exists.
func (s *TaxonomyStore) TopicExists(id uuid.UUID) (bool, error) {
	return exists(s.db, "topics", id, Visible)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationStoreHierarchy(t *testing.T) {
	db := testDB(t)
	s := NewLocationStore(db)

	country, err := s.CreateCountry("Zz Testland")
	require.NoError(t, err)
	t.Cleanup(func() { cleanRows(t, db, "countries", country.ID) })

	state, err := s.CreateState("Zz North", country.ID)
	require.NoError(t, err)
	assert.Equal(t, country.ID, state.CountryID)

	city, err := s.CreateCity("Zz Harbour", state.ID)
	require.NoError(t, err)
	assert.Equal(t, state.ID, city.StateID)

	statesOf, err := s.ListStates(&country.ID)
	require.NoError(t, err)
	require.Len(t, statesOf, 1)
	assert.Equal(t, "Zz North", statesOf[0].Name)

	citiesOf, err := s.ListCities(&state.ID)
	require.NoError(t, err)
	require.Len(t, citiesOf, 1)

	all, err := s.ListCountries()
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	found, err := s.FindCity(city.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Zz Harbour", found.Name)

	ok, err := s.CityExists(city.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CityExists(uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.CreateState("orphan", uuid.New())
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestTaxonomyStoreHierarchy(t *testing.T) {
	db := testDB(t)
	s := NewTaxonomyStore(db)

	cat, err := s.CreateCategory("Zz Policy")
	require.NoError(t, err)
	t.Cleanup(func() { cleanRows(t, db, "categories", cat.ID) })

	sub, err := s.CreateSubCategory("Zz Fiscal", cat.ID)
	require.NoError(t, err)
	topic, err := s.CreateTopic("Zz Budget", sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, topic.SubCategoryID)

	subs, err := s.ListSubCategories(&cat.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	topicsOf, err := s.ListTopics(&sub.ID)
	require.NoError(t, err)
	require.Len(t, topicsOf, 1)
	assert.Equal(t, "Zz Budget", topicsOf[0].Name)

	missing, err := s.FindTopic(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := s.TopicExists(topic.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

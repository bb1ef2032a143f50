/*
 * @module service/database/seed_test
 * @description Seed idempotence and taxonomy-shape tests over the embedded
 *              dataset.
 * @dependencies testify, testutil
 */

package database

import (
	"testing"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedTaxonomyShape(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	require.NoError(t, SeedTaxonomy(tdb.DB, false))

	var domains int64
	tdb.DB.Model(&models.Domain{}).Count(&domains)
	assert.EqualValues(t, 14, domains)

	var oeDomains int64
	tdb.DB.Model(&models.Domain{}).Where("is_oe_domain = ?", true).Count(&oeDomains)
	assert.EqualValues(t, 2, oeDomains)

	// Every seeded question carries exactly six levels.
	var questions []models.Question
	require.NoError(t, tdb.DB.Preload("MaturityLevels").Find(&questions).Error)
	require.NotEmpty(t, questions)
	for _, q := range questions {
		assert.Len(t, q.MaturityLevels, 6, "question %s", q.Code)
	}

	// Spec-tagged evidence items produced specification rows.
	var specs int64
	tdb.DB.Model(&models.Specification{}).Count(&specs)
	assert.Greater(t, specs, int64(0))
}

func TestSeedTaxonomyIdempotent(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	require.NoError(t, SeedTaxonomy(tdb.DB, false))
	var before int64
	tdb.DB.Model(&models.Question{}).Count(&before)

	require.NoError(t, SeedTaxonomy(tdb.DB, false))
	var after int64
	tdb.DB.Model(&models.Question{}).Count(&after)
	assert.Equal(t, before, after)
}

func TestSeedTaxonomyForceRebuilds(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	require.NoError(t, SeedTaxonomy(tdb.DB, false))
	// Mutate the taxonomy, then force a reseed.
	tdb.DB.Model(&models.Domain{}).Where("code = ?", "DG").Update("name_en", "changed")

	require.NoError(t, SeedTaxonomy(tdb.DB, true))

	var dg models.Domain
	require.NoError(t, tdb.DB.Where("code = ?", "DG").First(&dg).Error)
	assert.Equal(t, "Data Governance", dg.NameEn)
}

func TestInitializeDataCreatesAdminAndProviders(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	require.NoError(t, InitializeData(tdb.DB))

	var admin models.User
	require.NoError(t, tdb.DB.Where("email = ?", "admin@ndi.local").First(&admin).Error)
	assert.Equal(t, models.UserRoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.HashedPassword)

	var providers int64
	tdb.DB.Model(&models.AIProviderConfig{}).Count(&providers)
	assert.EqualValues(t, 4, providers)

	// Second run does not duplicate anything.
	require.NoError(t, InitializeData(tdb.DB))
	var users int64
	tdb.DB.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 1, users)
}

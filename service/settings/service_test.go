/*
 * @module service/settings/service_test
 * @description Settings service tests: secret round-trip, masking and the
 *              single-default provider invariant.
 * @dependencies testify, testutil
 */

package settings

import (
	"crypto/sha256"
	"testing"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() [32]byte {
	return sha256.Sum256([]byte("test-settings-key"))
}

func newTestService(t *testing.T) (*Service, *testutil.TestDB) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewService(tdb.DB, testKey()), tdb
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey()
	ciphertext, err := encrypt(key, "sk-secret-value")
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "sk-secret-value")

	plaintext, err := decrypt(key, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret-value", plaintext)

	// A different key cannot open the box.
	other := sha256.Sum256([]byte("other"))
	_, err = decrypt(other, ciphertext)
	assert.ErrorIs(t, err, ErrCiphertextInvalid)
}

func TestSecretSettingStoredEncryptedAndMasked(t *testing.T) {
	svc, tdb := newTestService(t)

	require.NoError(t, svc.SetSetting("smtp_password", "hunter2", models.SettingCategoryNotification, true))

	var raw models.Setting
	require.NoError(t, tdb.DB.First(&raw, "key = ?", "smtp_password").Error)
	assert.NotEqual(t, "hunter2", raw.Value, "value must not be stored in plaintext")

	listed, err := svc.ListSettings(models.SettingCategoryNotification)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "********", listed[0].Value)

	plaintext, err := svc.GetSettingValue("smtp_password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plaintext)
}

func TestOrganizationCreatedOnFirstAccess(t *testing.T) {
	svc, _ := newTestService(t)

	org, err := svc.Organization()
	require.NoError(t, err)
	assert.NotEmpty(t, org.ID)

	name := "Ministry of Examples"
	updated, err := svc.UpdateOrganization(&OrganizationRequest{NameEn: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.NameEn)
	assert.Equal(t, org.ID, updated.ID, "profile stays a single row")
}

func TestProviderKeyNeverLeavesService(t *testing.T) {
	svc, tdb := newTestService(t)
	require.NoError(t, tdb.DB.Create(&models.AIProviderConfig{ID: "openai", NameEn: "OpenAI", NameAr: "أوبن إيه آي"}).Error)

	apiKey := "sk-test-123"
	info, err := svc.UpdateProvider("openai", &ProviderRequest{APIKey: &apiKey})
	require.NoError(t, err)
	assert.True(t, info.HasAPIKey)
	assert.Empty(t, info.APIKey)

	listed, err := svc.ListProviders()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].APIKey)
	assert.True(t, listed[0].HasAPIKey)

	decrypted, _, _, err := svc.ProviderCredentials("openai")
	require.NoError(t, err)
	assert.Equal(t, apiKey, decrypted)
}

func TestSingleDefaultProvider(t *testing.T) {
	svc, tdb := newTestService(t)
	for _, id := range []string{"openai", "claude"} {
		require.NoError(t, tdb.DB.Create(&models.AIProviderConfig{ID: id, NameEn: id, NameAr: id}).Error)
	}

	yes := true
	_, err := svc.UpdateProvider("openai", &ProviderRequest{IsDefault: &yes, IsEnabled: &yes})
	require.NoError(t, err)
	_, err = svc.UpdateProvider("claude", &ProviderRequest{IsDefault: &yes, IsEnabled: &yes})
	require.NoError(t, err)

	var defaults int64
	tdb.DB.Model(&models.AIProviderConfig{}).Where("is_default = ?", true).Count(&defaults)
	assert.EqualValues(t, 1, defaults)

	p, err := svc.DefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, "claude", p.ID)
}

func TestUnknownProvider(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UpdateProvider("nope", &ProviderRequest{})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

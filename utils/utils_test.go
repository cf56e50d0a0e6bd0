package utils_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihuadaka/checkin-server/config"
	"github.com/jihuadaka/checkin-server/utils"
)

func TestMain(m *testing.M) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:     "utils-test-secret",
		TokenTTLHours: 1,
	})
	os.Exit(m.Run())
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, utils.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, utils.CheckPassword(hash, "wrong password"))

	// bcrypt salts, so the same password never hashes twice alike.
	second, err := utils.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := utils.GenerateToken(7, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenRejectsExpiredAndGarbage(t *testing.T) {
	expired, err := utils.GenerateToken(7, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = utils.ParseToken(expired)
	assert.Error(t, err)

	_, err = utils.ParseToken("not.a.jwt")
	assert.Error(t, err)

	// A token signed with another secret is rejected.
	token, err := utils.GenerateToken(7, "alice", time.Hour)
	require.NoError(t, err)
	config.SetForTesting(config.AppConfig{JWTSecret: "rotated-secret"})
	t.Cleanup(func() {
		config.SetForTesting(config.AppConfig{JWTSecret: "utils-test-secret", TokenTTLHours: 1})
	})
	_, err = utils.ParseToken(token)
	assert.Error(t, err)
}

func TestSanitizeStripsMarkup(t *testing.T) {
	assert.Equal(t, "重要任务", utils.Sanitize("<b>重要</b>任务"))
	assert.Equal(t, "每天跑步", utils.Sanitize("每天跑步"))
	assert.NotContains(t, utils.Sanitize(`<a href="javascript:x()">点我</a>`), "javascript")
}

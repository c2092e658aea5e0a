package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/careerbridge")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, int64(DefaultMaxUploadSize), cfg.MaxUploadSize)
	assert.False(t, cfg.Twilio.Enabled)
	assert.False(t, cfg.UseS3())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/careerbridge")
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoad_TwilioToggle(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/careerbridge")

	for _, val := range []string{"true", "True", "1", "t"} {
		t.Setenv("TWILIO_ENABLED", val)
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Twilio.Enabled, "value %q should enable Twilio", val)
	}

	t.Setenv("TWILIO_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Twilio.Enabled)
}

func TestValidate_TwilioRequiresCredentials(t *testing.T) {
	cfg := &Config{
		Port:   8080,
		Twilio: TwilioConfig{Enabled: true},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWILIO_ACCOUNT_SID")
}

func TestValidate_S3RequiresKeys(t *testing.T) {
	cfg := &Config{Port: 8080, S3Bucket: "resumes"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_ACCESS_KEY")
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)

	hash, err := cfg.HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, cfg.VerifyPassword("Secret123", hash))
	assert.False(t, cfg.VerifyPassword("Secret124", hash))
}

func TestPasswordConfig_PepperChangesVerification(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "pepper-a")

	withPepper, err := NewPasswordConfig()
	require.NoError(t, err)

	hash, err := withPepper.HashPassword("Secret123")
	require.NoError(t, err)

	withoutPepper := &PasswordConfig{BcryptCost: 10}
	assert.False(t, withoutPepper.VerifyPassword("Secret123", hash))
	assert.True(t, withPepper.VerifyPassword("Secret123", hash))
}

func TestPasswordConfig_CostRange(t *testing.T) {
	t.Setenv("BCRYPT_COST", "9")
	_, err := NewPasswordConfig()
	require.Error(t, err)

	t.Setenv("BCRYPT_COST", "15")
	_, err = NewPasswordConfig()
	require.Error(t, err)
}

func TestJWTConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestJWTConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.ExpirationHours)
}

func TestJWTConfig_InvalidExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "0")

	_, err := NewJWTConfig()
	require.Error(t, err)
}

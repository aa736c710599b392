package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loadbroker/backend/pkg/apperrors"
)

func TestValidateRequiresSecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.APIKey = "secret"
	cfg.FMCSA.WebKey = "webkey"
	assert.NoError(t, cfg.Validate())

	missingAPIKey := &Config{}
	missingAPIKey.FMCSA.WebKey = "webkey"
	err := missingAPIKey.Validate()
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))

	missingWebKey := &Config{}
	missingWebKey.Auth.APIKey = "secret"
	err = missingWebKey.Validate()
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))
}

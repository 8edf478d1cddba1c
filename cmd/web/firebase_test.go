package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureFirebaseCredentialsPath(t *testing.T) {
	t.Setenv(CredentialsPathEnvVar, "/secrets/creds.json")
	assert.NoError(t, configureFirebaseCredentials())
}

func TestConfigureFirebaseCredentialsMissing(t *testing.T) {
	t.Setenv(CredentialsPathEnvVar, "")
	require.NoError(t, os.Unsetenv(CredentialsPathEnvVar))
	t.Setenv(CredentialsJsonEnvVar, "")
	require.NoError(t, os.Unsetenv(CredentialsJsonEnvVar))
	assert.Error(t, configureFirebaseCredentials())
}

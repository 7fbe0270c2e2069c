package authenticator_test

import (
	"testing"
	"time"

	"github.com/fundraisely/backend/config"
	"github.com/fundraisely/backend/pkg/authenticator"

	"github.com/stretchr/testify/require"
)

type hostToken struct {
	HostID string `json:"host_id"`
}

func TestTokenEngine(t *testing.T) {
	engine := authenticator.NewTokenEngine[hostToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})

	token, err := engine.Generate("host-1", hostToken{HostID: "host-1"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "host-1", obj.HostID)

	_, err = engine.Verify(token + "tampered")
	require.Error(t, err)
}

func TestTokenEngineExpired(t *testing.T) {
	engine := authenticator.NewTokenEngine[hostToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: -time.Minute,
	})

	token, err := engine.Generate("host-1", hostToken{HostID: "host-1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
